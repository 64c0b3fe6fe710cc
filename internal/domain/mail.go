package domain

const (
	MailTypeCreateUser  = "create_user"
	MailTypeRunFinished = "run_finished"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RunFinishedMailData struct {
	RunID       int64     `json:"runID"`
	ProblemName string    `json:"problemName"`
	Status      RunStatus `json:"status"`
	Fitness     float64   `json:"fitness"`
	Error       string    `json:"error"`
}
