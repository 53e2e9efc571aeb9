package authflow

// Routes the session core navigates to. The consuming UI owns the actual
// routing table; these are the observable targets of the auth operations.
const (
	RouteHome            = "/"
	RouteSignIn          = "/signin"
	RouteProfile         = "/profile"
	RouteCompleteProfile = "/complete-profile"
)

// Navigator receives the navigation side effects of auth operations.
// NavigateTo moves within the app; Redirect is a full handoff to an
// external URL (federated provider authorization).
type Navigator interface {
	NavigateTo(path string)
	Redirect(url string)
}

// NopNavigator discards all navigation. Useful for tests and headless use.
type NopNavigator struct{}

func (NopNavigator) NavigateTo(string) {}
func (NopNavigator) Redirect(string)   {}
