package model

import "time"

type QuestionType string

const (
	ShortText      QuestionType = "short_text"
	LongText       QuestionType = "long_text"
	MultipleChoice QuestionType = "multiple_choice"
	Checkbox       QuestionType = "checkbox"
	Dropdown       QuestionType = "dropdown"
	Number         QuestionType = "number"
	Date           QuestionType = "date"
	Email          QuestionType = "email"
)

func (t QuestionType) Known() bool {
	switch t {
	case ShortText, LongText, MultipleChoice, Checkbox, Dropdown, Number, Date, Email:
		return true
	}
	return false
}

// NeedsOptions reports whether the type only makes sense with a
// predefined list of choices.
func (t QuestionType) NeedsOptions() bool {
	switch t {
	case MultipleChoice, Checkbox, Dropdown:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Form struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	IsActive         bool      `json:"is_active"`
	AcceptsResponses bool      `json:"accepts_responses"`
	RequiresAuth     bool      `json:"requires_auth"`
	ResponseCount    int       `json:"response_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FormWithQuestions is the read DTO assembled after both the form and its
// question rows are loaded, so neither entity has to embed the other.
type FormWithQuestions struct {
	Form
	Questions []Question `json:"questions"`
}

type Question struct {
	ID          string       `json:"id"`
	FormID      string       `json:"form_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        QuestionType `json:"question_type"`
	IsRequired  bool         `json:"is_required"`
	Order       int          `json:"order"`
	Options     []string     `json:"options,omitempty"`
	MinLength   *int         `json:"min_length,omitempty"`
	MaxLength   *int         `json:"max_length,omitempty"`
	MinValue    *float64     `json:"min_value,omitempty"`
	MaxValue    *float64     `json:"max_value,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type FormResponse struct {
	ID           string    `json:"id"`
	FormID       string    `json:"form_id"`
	RespondentID *string   `json:"respondent_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	IsComplete   bool      `json:"is_complete"`
	IsValid      bool      `json:"is_valid"`
}

type Answer struct {
	ID         string    `json:"id"`
	ResponseID string    `json:"form_response_id"`
	QuestionID string    `json:"question_id"`
	Value      Value     `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResponseDetail pairs a submission with its answer rows.
type ResponseDetail struct {
	FormResponse
	Answers []Answer `json:"answers"`
}

// AnswerInput is one (question, value) pair of an inbound submission.
type AnswerInput struct {
	QuestionID string `json:"question_id"`
	Value      Value  `json:"value"`
}

type Submission struct {
	Answers []AnswerInput `json:"answers"`
}

type FormStats struct {
	TotalResponses  int `json:"total_responses"`
	RecentResponses int `json:"recent_responses"`
	// CompletionRate is a placeholder until a real completion funnel
	// exists. Always 1.0.
	CompletionRate        float64  `json:"completion_rate"`
	AverageCompletionTime *float64 `json:"average_completion_time"`
}
