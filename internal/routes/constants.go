package routes

const (
	// API route constants
	IndexRouteAPI   = "/{$}"
	MetricsRouteAPI = "/metrics"
	SignupRouteAPI  = "/signup"
	LoginRouteAPI   = "/login"
	LogoutRouteAPI  = "/logout"
	CurrentRouteAPI = "/current"

	// LandingPath is where login and logout redirect to.
	LandingPath = "/"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	maxBodyBytes = 1 << 20

	// message constants shown to the user
	MsgSignupSuccessful   = "Sign-up successful! You can now login."
	MsgLoginSuccessful    = "Login successful"
	MsgSignupMissingField = "Please fill in all sign-up fields."
	MsgLoginMissingField  = "Please fill in all login fields."
	MsgInvalidUsername    = "Username should be 3-20 chars, letters, numbers or underscore only."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgUsernameTaken      = "Username already exists."
	MsgInvalidCredentials = "Invalid username or password."
	MsgSomethingWentWrong = "Something went wrong. Please try again later."
	MsgMethodNotAllowed   = "Method not allowed."
	MsgInvalidRequestBody = "Invalid request body."

	// Error messages
	ErrInvalidContentTypeFormat = "invalid content-type: %s"
	ErrFailedToEncodeResponse   = "failed to encode response"
	ErrFailedToDecodeRequest    = "failed to decode request body"
	ErrFailedToEncodeCookie     = "failed to encode session cookie"
	ErrFailedToResolveSession   = "failed to resolve session"

	// metric reason labels
	ReasonMissingField       = "missing_field"
	ReasonInvalidUsername    = "invalid_username"
	ReasonPasswordMismatch   = "password_mismatch"
	ReasonUsernameTaken      = "username_taken"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonBadRequest         = "bad_request"
	ReasonInternal           = "internal"
)
