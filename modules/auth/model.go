package auth

// SendOTPRequest - POST /webapp/signup/send-otp
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest - POST /webapp/signup/verify-otp
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTPResponse - carries the one-time registration session token
type VerifyOTPResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"sessionToken"`
}

// CompleteRegistrationRequest - POST /webapp/signup/complete
type CompleteRegistrationRequest struct {
	SessionToken string `json:"sessionToken"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// LoginRequest - POST /webapp/login
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

// RefreshRequest - POST /webapp/refresh-token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Profile - the safe subset of the user row returned to clients
type Profile struct {
	ID        string  `json:"id"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
}

// AuthResponse - tokens plus profile
type AuthResponse struct {
	Success      bool    `json:"success"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         Profile `json:"user"`
}
