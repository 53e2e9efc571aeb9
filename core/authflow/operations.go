package authflow

import (
	"context"
	"errors"
	"strings"

	"github.com/localkaam/localkaam/core/logger"
	"github.com/localkaam/localkaam/core/profile"
)

// SignIn performs credential authentication followed by a full reconcile:
// profile upsert, login analytics, and the suspicious login check. On
// success it publishes the authenticated state and navigates by role and
// profile completeness; on failure it surfaces a notification and returns
// the error so callers can react as well.
func (f *Flow) SignIn(ctx context.Context, email, password string) error {
	if err := f.ready(); err != nil {
		return err
	}
	gen := f.gen()

	sess, err := f.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		f.log.ErrorContext(ctx, "sign in failed", logger.Email(email), logger.Error(err))
		f.notify.Error("Failed to sign in")
		return errors.Join(ErrAuthFailed, err)
	}

	user, err := f.reconcile(ctx, sess, true)
	if err != nil {
		// Explicit path: profile sync failures are surfaced and returned.
		f.log.ErrorContext(ctx, "sign in reconciliation failed",
			logger.UserID(sess.UserID), logger.Error(err))
		f.notify.Error("Failed to sign in")
		return err
	}

	hasWorkerProfile := false
	if _, err := f.store.WorkerProfile(ctx, user.ID); err == nil {
		hasWorkerProfile = true
	} else if !errors.Is(err, profile.ErrNotFound) {
		f.log.ErrorContext(ctx, "failed to check worker profile",
			logger.UserID(user.ID), logger.Error(err))
	}

	f.apply(gen, user)
	f.notify.Success("Signed in successfully!")

	// The stash is consumed on every sign-in, even when role-based routing
	// overrides it, so a stale path never leaks into a later session.
	target := f.takeRedirect(ctx)

	switch {
	case hasWorkerProfile:
		f.nav.NavigateTo(RouteProfile)
	case user.Role == profile.RoleWorker:
		f.nav.NavigateTo(RouteCompleteProfile)
	case target != "":
		f.nav.NavigateTo(target)
	default:
		f.nav.NavigateTo(RouteHome)
	}

	return nil
}

// SignInWithProvider requests a federated authorization URL, stashes the
// current path for the post-auth return, and hands navigation off to the
// provider. Local session state does not change here; completion arrives
// through the gateway event subscription.
func (f *Flow) SignInWithProvider(ctx context.Context, provider, currentPath string) error {
	if err := f.ready(); err != nil {
		return err
	}

	url, err := f.gateway.SignInWithOAuth(ctx, OAuthParams{
		Provider: provider,
		QueryParams: map[string]string{
			"access_type": "offline",
			"prompt":      "select_account",
		},
	})
	if err != nil {
		f.log.ErrorContext(ctx, "federated sign in failed",
			logger.Provider(provider), logger.Error(err))
		f.notify.Error("Failed to sign in with " + provider + ". Please try again.")
		return errors.Join(ErrAuthFailed, err)
	}

	if currentPath != "" {
		if err := f.redirects.Put(ctx, f.redirectKey, currentPath); err != nil {
			f.log.WarnContext(ctx, "failed to stash redirect path",
				logger.Target(currentPath), logger.Error(err))
		}
	}

	f.nav.Redirect(url)
	return nil
}

// SignUp validates the password policy, creates the account, and seeds the
// minimal profile row. The user lands on the sign-in route; no session is
// established here.
func (f *Flow) SignUp(ctx context.Context, email, password, passwordConfirm string, role profile.Role) error {
	if err := f.ready(); err != nil {
		return err
	}

	if verr := ValidatePassword(password, passwordConfirm); verr != nil {
		f.notify.Error(verr.Message)
		return verr
	}
	if !role.Valid() {
		verr := &ValidationError{Field: "role", Message: "Please choose a valid account type"}
		f.notify.Error(verr.Message)
		return verr
	}

	userID, err := f.gateway.SignUp(ctx, email, password, SignUpMetadata{Role: role})
	if err != nil {
		f.log.ErrorContext(ctx, "sign up failed", logger.Email(email), logger.Error(err))
		f.notify.Error("Failed to create account")
		return errors.Join(ErrAuthFailed, err)
	}

	if _, err := f.upserter.Upsert(ctx, profile.UpsertParams{
		ID:    userID,
		Email: email,
		Role:  role,
	}); err != nil {
		f.log.ErrorContext(ctx, "sign up profile creation failed",
			logger.UserID(userID), logger.Error(err))
		f.notify.Error("Failed to create account")
		return errors.Join(ErrProfileSync, err)
	}

	f.notify.Success("Account created successfully! You can now sign in.")
	f.nav.NavigateTo(RouteSignIn)
	return nil
}

// SignOut ends the remote session. On success the local state clears to
// anonymous and the user lands home; on failure the state is left
// unchanged so a transient gateway error does not fake a logout.
func (f *Flow) SignOut(ctx context.Context) error {
	if err := f.ready(); err != nil {
		return err
	}
	gen := f.gen()

	if err := f.gateway.SignOut(ctx); err != nil {
		f.log.ErrorContext(ctx, "sign out failed", logger.Error(err))
		f.notify.Error("Failed to sign out")
		return errors.Join(ErrSignOutFailed, err)
	}

	f.apply(gen, nil)
	f.nav.NavigateTo(RouteHome)
	f.notify.Success("Signed out successfully")
	return nil
}

// UpdateProfile writes the permitted mutable fields (full name, avatar,
// bio, phone) for the signed-in user and merges the result into the
// published state. Unlike the other operations it reports success as a
// boolean and never returns an error; callers must check the result.
func (f *Flow) UpdateProfile(ctx context.Context, update profile.Update) bool {
	if f.ready() != nil {
		return false
	}

	current := f.Current()
	if current.User == nil {
		f.log.WarnContext(ctx, "profile update without authenticated user")
		f.notify.Error("Failed to update profile")
		return false
	}
	gen := f.gen()

	// Email and role are not caller-mutable; drop them regardless of input.
	permitted := profile.Update{
		FullName:  update.FullName,
		AvatarURL: update.AvatarURL,
		Bio:       update.Bio,
		Phone:     update.Phone,
	}

	updated, err := f.store.Update(ctx, current.User.ID, permitted)
	if err != nil {
		f.log.ErrorContext(ctx, "profile update failed",
			logger.UserID(current.User.ID), logger.Error(err))
		f.notify.Error("Failed to update profile")
		return false
	}

	f.apply(gen, updated)
	f.notify.Success("Profile updated successfully")
	return true
}

// WorkerProfileParams describes a worker's profile completion submission.
type WorkerProfileParams struct {
	FullName        string
	AvatarURL       string
	Phone           string
	ServiceCategory string
	ExperienceYears int
	HourlyRate      float64
}

// CompleteWorkerProfile finishes onboarding for a worker account: updates
// the base profile fields and creates the worker extension row in pending
// verification state, then lands on the profile view.
func (f *Flow) CompleteWorkerProfile(ctx context.Context, params WorkerProfileParams) error {
	if err := f.ready(); err != nil {
		return err
	}

	current := f.Current()
	if current.User == nil {
		return ErrNotAuthenticated
	}
	gen := f.gen()

	update := profile.Update{}
	if params.FullName != "" {
		update.FullName = &params.FullName
	}
	if params.AvatarURL != "" {
		update.AvatarURL = &params.AvatarURL
	}
	if params.Phone != "" {
		update.Phone = &params.Phone
	}

	updated, err := f.store.Update(ctx, current.User.ID, update)
	if err != nil {
		f.log.ErrorContext(ctx, "worker profile completion failed",
			logger.UserID(current.User.ID), logger.Error(err))
		f.notify.Error("Failed to complete profile")
		return errors.Join(ErrProfileSync, err)
	}

	wp := &profile.WorkerProfile{
		ID:                 current.User.ID,
		ServiceCategory:    strings.ToLower(params.ServiceCategory),
		ExperienceYears:    params.ExperienceYears,
		HourlyRate:         params.HourlyRate,
		VerificationStatus: profile.VerificationPending,
	}
	if err := f.store.InsertWorkerProfile(ctx, wp); err != nil {
		f.log.ErrorContext(ctx, "worker profile creation failed",
			logger.UserID(current.User.ID), logger.Error(err))
		f.notify.Error("Failed to complete profile")
		return errors.Join(ErrProfileSync, err)
	}

	f.apply(gen, updated)
	f.notify.Success("Profile completed successfully!")
	f.nav.NavigateTo(RouteProfile)
	return nil
}

// takeRedirect consumes the stashed post-auth redirect path, or "".
func (f *Flow) takeRedirect(ctx context.Context) string {
	path, err := f.redirects.Take(ctx, f.redirectKey)
	if err != nil {
		f.log.WarnContext(ctx, "failed to read redirect path", logger.Error(err))
		return ""
	}
	return path
}
