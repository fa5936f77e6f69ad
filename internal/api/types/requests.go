package types

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProjectCreateRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

type ProjectUpdateRequest struct {
	Name        *string                `json:"name" validate:"omitempty,min=1"`
	Description *string                `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

type DocumentCreateRequest struct {
	Title   string  `json:"title" validate:"required"`
	Content *string `json:"content"`
}

// DocumentUpdateRequest is a partial mutation: absent keys leave fields
// untouched, an explicit "content": "" clears the body.
type DocumentUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content"`
}
