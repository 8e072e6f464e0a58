package auth

import (
	"context"
	"testing"
	"time"

	"blog-server-go/internal/domain/user"
	"blog-server-go/internal/platform/errors"
	platformtesting "blog-server-go/internal/platform/testing"
)

// fakeVerifier returns a canned profile instead of calling Google.
type fakeVerifier struct {
	profile *Profile
	err     error
}

func (f *fakeVerifier) VerifyAssertion(_ context.Context, _ string) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func setupService(t *testing.T, verifier AssertionVerifier) (*Service, *user.Repository) {
	t.Helper()

	db := platformtesting.SetupTestDB(t)
	repo := user.NewRepository(db)
	svc, err := NewService(Options{
		Accounts: repo,
		Hasher:   NewHasher(4),
		Tokens:   NewIssuer("test-secret", 15*time.Minute, 7*24*time.Hour),
		Google:   verifier,
		Logger:   platformtesting.SetupTestLogger(t),
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo
}

func TestService_RegisterOnceThenConflict(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	in := RegisterInput{Username: "alice", Password: "Secr3t!", FullName: "Alice A"}

	account, pair, err := svc.Register(ctx, in)
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, "alice", account.Username)
	if account.Password == "Secr3t!" {
		t.Fatal("stored password must be a digest")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	_, _, err = svc.Register(ctx, in)
	platformtesting.AssertError(t, err)
	if !errors.IsKind(err, errors.KindConflict) {
		t.Errorf("second registration should conflict, got %v", err)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	tests := []RegisterInput{
		{Password: "pw", FullName: "No Name"},
		{Username: "x", FullName: "No Password"},
		{Username: "x", Password: "pw"},
	}
	for _, in := range tests {
		_, _, err := svc.Register(ctx, in)
		if !errors.IsKind(err, errors.KindValidation) {
			t.Errorf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestService_LoginFlows(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Password: "Secr3t!", FullName: "Alice A",
	})
	platformtesting.AssertNoError(t, err)

	account, pair, err := svc.Login(ctx, "alice", "Secr3t!")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, registered.ID, account.ID)

	accountID, err := svc.Tokens().Verify(pair.AccessToken, KindAccess)
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, registered.ID, accountID)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("wrong password should be a validation failure, got %v", err)
	}

	_, _, err = svc.Login(ctx, "nobody", "Secr3t!")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("unknown username should be not found, got %v", err)
	}

	_, _, err = svc.Login(ctx, "", "")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("missing fields should be a validation failure, got %v", err)
	}
}

func TestService_GoogleLoginProvisionsOnce(t *testing.T) {
	verifier := &fakeVerifier{profile: &Profile{
		Subject: "google-sub-1",
		Email:   "carol@example.com",
		Name:    "Carol C",
		Picture: "https://example.com/carol.png",
	}}
	svc, _ := setupService(t, verifier)
	ctx := context.Background()

	first, _, err := svc.GoogleLogin(ctx, "assertion")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, "carol@example.com", first.Username)
	if !first.IsGoogleUser || first.GoogleID == nil {
		t.Fatal("provisioned account must be marked federated")
	}
	if first.Password != "" {
		t.Fatal("provisioned account must have no password digest")
	}

	// Same subject again: no duplicate account.
	second, _, err := svc.GoogleLogin(ctx, "assertion")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, first.ID, second.ID)
}

func TestService_GoogleLoginLinksPasswordAccount(t *testing.T) {
	verifier := &fakeVerifier{profile: &Profile{
		Subject: "google-sub-2",
		Email:   "alice@example.com",
		Name:    "Alice A",
	}}
	svc, repo := setupService(t, verifier)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Password: "Secr3t!", FullName: "Alice A",
	})
	platformtesting.AssertNoError(t, err)
	registered.Email = stringPtr("alice@example.com")
	platformtesting.AssertNoError(t, repo.Update(ctx, registered))

	linked, _, err := svc.GoogleLogin(ctx, "assertion")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, registered.ID, linked.ID)
	if linked.GoogleID == nil || *linked.GoogleID != "google-sub-2" {
		t.Fatal("account should be linked to the provider subject")
	}

	// Both authentication paths remain valid after the upgrade.
	_, _, err = svc.Login(ctx, "alice", "Secr3t!")
	platformtesting.AssertNoError(t, err)
	again, _, err := svc.GoogleLogin(ctx, "assertion")
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, registered.ID, again.ID)
}

func TestService_PasswordLoginOnFederatedAccount(t *testing.T) {
	verifier := &fakeVerifier{profile: &Profile{
		Subject: "google-sub-3",
		Email:   "dave@example.com",
		Name:    "Dave D",
	}}
	svc, _ := setupService(t, verifier)
	ctx := context.Background()

	account, _, err := svc.GoogleLogin(ctx, "assertion")
	platformtesting.AssertNoError(t, err)

	_, _, err = svc.Login(ctx, account.Username, "whatever")
	platformtesting.AssertError(t, err)
	if !errors.IsKind(err, errors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if errors.Message(err) == "invalid password" {
		t.Error("federated-only account needs an actionable error, not a generic one")
	}
}

func TestService_GoogleLoginInvalidAssertion(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New(errors.KindAuth, "google_verify", "bad signature")}
	svc, _ := setupService(t, verifier)

	_, _, err := svc.GoogleLogin(context.Background(), "tampered")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("invalid assertion should surface as validation failure, got %v", err)
	}

	_, _, err = svc.GoogleLogin(context.Background(), "")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("missing credential should be a validation failure, got %v", err)
	}
}

func TestService_Refresh(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	registered, pair, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Password: "Secr3t!", FullName: "Alice A",
	})
	platformtesting.AssertNoError(t, err)

	account, next, err := svc.Refresh(ctx, pair.RefreshToken)
	platformtesting.AssertNoError(t, err)
	platformtesting.AssertEqual(t, registered.ID, account.ID)
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatal("refresh should mint a full pair")
	}

	// Access token presented as refresh credential is rejected.
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	if !errors.IsKind(err, errors.KindAuth) {
		t.Errorf("access token must not refresh, got %v", err)
	}

	_, _, err = svc.Refresh(ctx, "garbage")
	if !errors.IsKind(err, errors.KindAuth) {
		t.Errorf("garbage token must fail auth, got %v", err)
	}
}

func stringPtr(s string) *string { return &s }
