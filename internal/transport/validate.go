package transport

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/Skotchmaster/inventory/internal/models"
)

const (
	minUsernameLen = 5
	minPasswordLen = 8
	// bcrypt ignores everything past this many bytes
	maxPasswordBytes = 72
	passwordSpecials = "!@#$%^&*"
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r CreateUserRequest) Validate() []string {
	var problems []string
	problems = append(problems, validateUsername(r.Username)...)
	problems = append(problems, validateEmail(r.Email)...)
	problems = append(problems, validatePassword(r.Password)...)
	problems = append(problems, validateRoles(r.Roles)...)
	return problems
}

func (r PatchUserRequest) Validate() []string {
	var problems []string
	if r.Username != nil {
		problems = append(problems, validateUsername(*r.Username)...)
	}
	if r.Email != nil {
		problems = append(problems, validateEmail(*r.Email)...)
	}
	if r.Password != nil {
		problems = append(problems, validatePassword(*r.Password)...)
	}
	if r.Roles != nil {
		problems = append(problems, validateRoles(*r.Roles)...)
	}
	return problems
}

func (r SignInRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.Email) == "" {
		problems = append(problems, MsgEmailNotEmpty)
	}
	if r.Password == "" {
		problems = append(problems, MsgPasswordNotEmpty)
	}
	return problems
}

func (r CreateProductRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, MsgTitleNotEmpty)
	}
	if strings.TrimSpace(r.Description) == "" {
		problems = append(problems, MsgDescriptionNotEmpty)
	}
	if r.Quantity < 1 {
		problems = append(problems, MsgQuantityMin)
	}
	if r.Price < 0 {
		problems = append(problems, MsgPriceMin)
	}
	return problems
}

func (r PatchProductRequest) Validate() []string {
	var problems []string
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		problems = append(problems, MsgTitleNotEmpty)
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		problems = append(problems, MsgDescriptionNotEmpty)
	}
	if r.Quantity != nil && *r.Quantity < 1 {
		problems = append(problems, MsgQuantityMin)
	}
	if r.Price != nil && *r.Price < 0 {
		problems = append(problems, MsgPriceMin)
	}
	return problems
}

func validateUsername(username string) []string {
	username = strings.TrimSpace(username)
	if username == "" {
		return []string{MsgUsernameNotEmpty}
	}
	if len([]rune(username)) < minUsernameLen {
		return []string{MsgUsernameMinLength}
	}
	return nil
}

func validateEmail(email string) []string {
	email = strings.TrimSpace(email)
	if email == "" {
		return []string{MsgEmailNotEmpty}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return []string{MsgEmailFormatInvalid}
	}
	return nil
}

func validatePassword(password string) []string {
	if password == "" {
		return []string{MsgPasswordNotEmpty}
	}
	if len(password) > maxPasswordBytes {
		return []string{MsgPasswordTooLong}
	}
	var hasDigit, hasLetter, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasDigit || !hasLetter || !hasSpecial || len([]rune(password)) < minPasswordLen {
		return []string{MsgPasswordComplexity}
	}
	return nil
}

func validateRoles(roles []string) []string {
	if len(roles) == 0 {
		return []string{MsgRolesNotEmpty}
	}
	for _, role := range roles {
		if role != models.RoleAdmin && role != models.RoleMember {
			return []string{MsgRoleUnknown}
		}
	}
	return nil
}
