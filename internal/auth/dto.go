package auth

// LoginAs selects which kind of account the caller expects to sign into.
const (
	LoginAsColaborador = "colaborador"
	LoginAsVisitante   = "visitante"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	LoginAs  string `json:"login_as"`
}

type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	if d.LoginAs != "" && d.LoginAs != LoginAsColaborador && d.LoginAs != LoginAsVisitante {
		return ValidationError{Msg: "login_as must be 'colaborador' or 'visitante'"}
	}
	return nil
}

func (d RegisterDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.FullName == "" {
		return ValidationError{Msg: "full_name is required"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}
