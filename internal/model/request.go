package model

import (
	"encoding/json"
	"time"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UnmarshalJSON also accepts the legacy "usernameCredential" field sent by
// older radar frontends.
func (r *LoginRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Username           string `json:"username"`
		UsernameCredential string `json:"usernameCredential"`
		Password           string `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Username = raw.Username
	if r.Username == "" {
		r.Username = raw.UsernameCredential
	}
	r.Password = raw.Password
	return nil
}

// LikeRequest carries the reference as sent by the client. ReferenceID may
// arrive as a JSON number or a numeric string.
type LikeRequest struct {
	ReferenceID   json.Number `json:"referenceId"`
	ReferenceType *string     `json:"referenceType"`
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

type UpdateUserRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"isActive"`
}

type EntryRequest struct {
	GeneratedID        string     `json:"generatedId"`
	Name               string     `json:"name"`
	Abstract           string     `json:"abstract"`
	Stage              string     `json:"stage"`
	DefinitionAndScope string     `json:"definitionAndScope"`
	RelevanceAndImpact string     `json:"relevanceAndImpact"`
	Segment            string     `json:"segment"`
	Maturity           string     `json:"maturity"`
	RecommendedAction  string     `json:"recommendedAction"`
	ContentSource      string     `json:"contentSource"`
	LastReviewDate     *time.Time `json:"lastReviewDate"`
	ImageURL           string     `json:"imageUrl"`
	Ring               int        `json:"ring"`
	Quadrant           int        `json:"quadrant"`
	Active             *bool      `json:"active"`
	Moved              int        `json:"moved"`
}

type StageRequest struct {
	Stage string `json:"stage"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CreateReferenceRequest struct {
	Type        string `json:"type"`
	GeneratedID string `json:"generatedId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
