package model

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct runs struct tag validation on any request or record type
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// UpdateSkillsRequest replaces a user's manually entered skills
type UpdateSkillsRequest struct {
	Skills []ExtractedSkill `json:"skills" validate:"max=200,dive"`
}

func (r *UpdateSkillsRequest) Validate() error {
	return validate.Struct(r)
}

// ImportGithubRequest asks for skills to be extracted from a GitHub account
type ImportGithubRequest struct {
	Login string `json:"login" validate:"required,max=39"`
}

func (r *ImportGithubRequest) Validate() error {
	return validate.Struct(r)
}

// ImportBlogRequest asks for skills to be extracted from a blog post
type ImportBlogRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (r *ImportBlogRequest) Validate() error {
	return validate.Struct(r)
}

// ImportReviewRequest carries pasted performance-review text
type ImportReviewRequest struct {
	Text string `json:"text" validate:"required,min=50,max=50000"`
}

func (r *ImportReviewRequest) Validate() error {
	return validate.Struct(r)
}

// CreateApplicationRequest starts tracking an application for a job
type CreateApplicationRequest struct {
	Status    string  `json:"status"`
	AppliedAt *string `json:"appliedAt"`
	Notes     string  `json:"notes" validate:"max=5000"`
}

func (r *CreateApplicationRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateStatusRequest moves an application to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validate.Struct(r)
}
