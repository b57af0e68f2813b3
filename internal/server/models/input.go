package models

// SignupInput is the body of a signup request.
type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordInput is the body of a password change request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// LogInput carries the editable fields of a log entry.
type LogInput struct {
	ProblemName string   `json:"problemName"`
	ProblemLink string   `json:"problemLink"`
	Topics      []string `json:"topic"`
	Difficulty  string   `json:"difficulty"`
	Status      string   `json:"status"`
	Notes       string   `json:"notes"`
}
