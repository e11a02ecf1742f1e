package domain

// Credentials is the input of a primary login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the input of a signup.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
}

// TwoFactorChallenge is the answer to a second-factor prompt.
type TwoFactorChallenge struct {
	Code string `json:"code"`
}

// Identity is the read-only projection of the current session.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Field describes one value collected by a Prompter.
type Field struct {
	Name     string
	Message  string
	Secret   bool
	Validate func(string) error
}

// Row is a single labeled value of a rendered record.
type Row struct {
	Label string
	Value string
}

// Notification names emitted after successful commands.
const (
	EventUserLogin  = "user.login"
	EventUserLogout = "user.logout"
	EventUserSignup = "user.signup"
)
