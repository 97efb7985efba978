package api

// EntryView is a catalog entry in transport form.
type EntryView struct {
	IssueNumber   int    `json:"issue_number,omitempty" yaml:"issue_number,omitempty"`
	Title         string `json:"title" yaml:"title"`
	Author        string `json:"author" yaml:"author"`
	Status        string `json:"status" yaml:"status"`
	StartDate     string `json:"start_date" yaml:"start_date"`
	EndDate       string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Image         string `json:"image,omitempty" yaml:"image,omitempty"`
	NotFound      bool   `json:"not_found,omitempty" yaml:"not_found,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
	SourceID      string `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	ISBN          string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	PageCount     int    `json:"page_count,omitempty" yaml:"page_count,omitempty"`
}

// OutcomeView describes what one event did to the catalog.
type OutcomeView struct {
	Outcome   string     `json:"outcome"`
	Event     string     `json:"event"`
	Issue     int        `json:"issue"`
	Title     string     `json:"title,omitempty"`
	Changed   bool       `json:"changed"`
	MatchedBy string     `json:"matched_by,omitempty"`
	Error     string     `json:"error,omitempty"`
	Entry     *EntryView `json:"entry,omitempty"`
}

// BackfillView summarizes a history replay.
type BackfillView struct {
	Issues       int `json:"issues" yaml:"issues"`
	Added        int `json:"added" yaml:"added"`
	Placeholders int `json:"placeholders" yaml:"placeholders"`
	Completed    int `json:"completed" yaml:"completed"`
	Skipped      int `json:"skipped" yaml:"skipped"`
	Ignored      int `json:"ignored" yaml:"ignored"`
}

// MatchView is a resolver result in transport form.
type MatchView struct {
	Provider      string `json:"provider" yaml:"provider"`
	Found         bool   `json:"found" yaml:"found"`
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Author        string `json:"author,omitempty" yaml:"author,omitempty"`
	Image         string `json:"image,omitempty" yaml:"image,omitempty"`
	ISBN          string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	PageCount     int    `json:"page_count,omitempty" yaml:"page_count,omitempty"`
}
