package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PageData is the primary payload extracted for a company page.
type PageData struct {
	PageID            string
	Name              string
	URL               string
	LinkedinID        string
	ProfilePictureURL string
	Description       string
	Website           string
	Industry          string
	FollowerCount     int
	Headcount         string
	Specialities      []string
	Founded           string
	Headquarters      string
	CompanyType       string
}

type PostData struct {
	PostID       string
	PageID       string
	Content      string
	LikeCount    int
	CommentCount int
	ShareCount   int
	MediaURL     string
	MediaType    string
	PostURL      string
	PostedAt     *time.Time
}

type CommentData struct {
	CommentID        string
	PostID           string
	PageID           string
	AuthorName       string
	AuthorProfileURL string
	AuthorHeadline   string
	Content          string
	LikeCount        int
	CommentedAt      *time.Time
}

type EmployeeData struct {
	PageID            string
	Name              string
	Designation       string
	Location          string
	ProfileURL        string
	ProfilePictureURL string
}

// Snapshot bundles one full acquisition attempt. Page is mandatory;
// the dependent slices are best-effort and may be empty.
type Snapshot struct {
	Page      *PageData
	Posts     []PostData
	Employees []EmployeeData
	Comments  []CommentData
}

// Scraper is the extractor contract. Implementations hold per-attempt
// state (an HTTP session) and must not be shared across concurrent
// acquisitions; callers own Close on every exit path.
type Scraper interface {
	ScrapePage(ctx context.Context, pageID string) (*PageData, error)
	ScrapePosts(ctx context.Context, pageID string, limit int) ([]PostData, error)
	ScrapeEmployees(ctx context.Context, pageID string, limit int) ([]EmployeeData, error)
	ScrapeAll(ctx context.Context, pageID string, postsLimit, employeesLimit int) (*Snapshot, error)
	Close() error
}

// Factory builds a fresh Scraper per acquisition attempt.
type Factory func() Scraper

// LoginWallError is terminal: the upstream page requires authentication
// and retrying anonymously cannot succeed.
type LoginWallError struct {
	PageID string
}

func (e *LoginWallError) Error() string {
	return fmt.Sprintf("login wall detected for page %q: page requires authentication to access full data", e.PageID)
}

// TimeoutError means the attempt exceeded its time budget; retryable.
type TimeoutError struct {
	PageID string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout scraping page %q: %v", e.PageID, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ScrapeError covers every other extraction failure.
type ScrapeError struct {
	PageID    string
	Message   string
	Retryable bool
	Err       error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scraping page %q: %s: %v", e.PageID, e.Message, e.Err)
	}
	return fmt.Sprintf("scraping page %q: %s", e.PageID, e.Message)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// IsLoginWall reports whether err classifies as the terminal access
// wall condition.
func IsLoginWall(err error) bool {
	var wall *LoginWallError
	return errors.As(err, &wall)
}

// Retryable classifies an extraction error. Unknown failures default to
// retryable; only the login wall is terminal.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if IsLoginWall(err) {
		return false
	}
	var scrapeErr *ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Retryable
	}
	return true
}
