package main

// PrefResponse is returned for preference reads and writes.
type PrefResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProgressResponse is returned for progress reads and writes.
type ProgressResponse struct {
	Course   string   `json:"course"`
	Lesson   int      `json:"lesson"`
	Finished bool     `json:"finished"`
	Progress *float64 `json:"progress"`
}

// RecentResponse reports the most recently listened course and lesson.
type RecentResponse struct {
	Course string `json:"course"`
	Lesson *int   `json:"lesson,omitempty"`
}

// TokenResponse carries the metrics token.
type TokenResponse struct {
	Token string `json:"token"`
}
