package api

import "time"

type ResultResponse struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Link      string `json:"link,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type SetResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Label      string           `json:"label"`
	TotalCount int              `json:"total_count"`
	Results    []ResultResponse `json:"results"`
}

type SearchResponse struct {
	Query string        `json:"query"`
	View  string        `json:"view"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Sets  []SetResponse `json:"sets"`
	HTML  string        `json:"html"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
