package domains

const (
	ActionOpened    = "opened"
	ActionSubmitted = "submitted"
)

const (
	ReviewStateApproved         = "approved"
	ReviewStateChangesRequested = "changes_requested"
)

type PullRequestEvent struct {
	Action       string
	Number       int
	Title        string
	URL          string
	RepoName     string
	RepoFullName string
	OpenerHandle string

	// Set for "submitted" events only.
	ReviewerHandle string
	ReviewState    string
	ReviewURL      string
}
