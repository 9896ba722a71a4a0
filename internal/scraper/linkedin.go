package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/yungbote/pageinsights-backend/internal/platform/logger"
)

const defaultBaseURL = "https://www.linkedin.com/company"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var linkedinIDRe = regexp.MustCompile(`/company/(\d+)`)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	WallThreshold  int
	UserAgent      string
	PostsLimit     int
	EmployeesLimit int
}

// linkedinScraper drives one anonymous HTTP session against the public
// company pages. One instance per acquisition attempt; the session is
// never pooled across concurrent calls.
type linkedinScraper struct {
	log    *logger.Logger
	cfg    Config
	client *resty.Client
}

func NewLinkedInScraper(cfg Config, log *logger.Logger) Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.WallThreshold <= 0 {
		cfg.WallThreshold = DefaultWallThreshold
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &linkedinScraper{
		log:    log.With("scraper", "LinkedInScraper"),
		cfg:    cfg,
		client: client,
	}
}

func (s *linkedinScraper) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}

func (s *linkedinScraper) ScrapePage(ctx context.Context, pageID string) (*PageData, error) {
	url := fmt.Sprintf("%s/%s/about/", s.cfg.BaseURL, pageID)

	res, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			s.log.Warn("Timeout loading page", "page_id", pageID)
			return nil, &TimeoutError{PageID: pageID, Err: err}
		}
		return nil, &ScrapeError{PageID: pageID, Message: "request failed", Retryable: true, Err: err}
	}

	body := res.String()

	// Wall pages come back with all kinds of status codes; check content
	// before the status.
	if isLoginWall(body, s.cfg.WallThreshold) {
		s.log.Warn("Login wall detected", "page_id", pageID)
		return nil, &LoginWallError{PageID: pageID}
	}
	if res.StatusCode() == 404 {
		return nil, &ScrapeError{PageID: pageID, Message: "page does not exist", Retryable: false}
	}
	if res.StatusCode() >= 400 {
		return nil, &ScrapeError{
			PageID:    pageID,
			Message:   fmt.Sprintf("unexpected status %d", res.StatusCode()),
			Retryable: true,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ScrapeError{PageID: pageID, Message: "parse document", Retryable: true, Err: err}
	}

	name := extractCompanyName(doc)
	if !ValidCompanyName(name) {
		s.log.Warn("Invalid company name extracted, treating as login wall", "page_id", pageID, "name", name)
		return nil, &LoginWallError{PageID: pageID}
	}

	specialities := []string{}
	if raw := extractDefinition(doc, "specialit"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				specialities = append(specialities, trimmed)
			}
		}
	}

	page := &PageData{
		PageID:            pageID,
		Name:              name,
		URL:               fmt.Sprintf("https://www.linkedin.com/company/%s/", pageID),
		LinkedinID:        extractLinkedinID(res),
		ProfilePictureURL: extractProfilePicture(doc),
		Description:       extractDescription(doc),
		Website:           extractWebsite(doc),
		Industry:          extractDefinition(doc, "industry"),
		FollowerCount:     extractFollowerCount(doc),
		Headcount:         extractDefinition(doc, "company size", "employees"),
		Specialities:      specialities,
		Founded:           extractDefinition(doc, "founded"),
		Headquarters:      extractDefinition(doc, "headquarters", "location"),
		CompanyType:       extractDefinition(doc, "type"),
	}

	s.log.Info("Scraped page", "page_id", pageID, "name", name)
	return page, nil
}

func (s *linkedinScraper) ScrapePosts(ctx context.Context, pageID string, limit int) ([]PostData, error) {
	url := fmt.Sprintf("%s/%s/posts/", s.cfg.BaseURL, pageID)

	res, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{PageID: pageID, Err: err}
		}
		return nil, &ScrapeError{PageID: pageID, Message: "posts request failed", Retryable: true, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return nil, &ScrapeError{PageID: pageID, Message: "parse posts document", Retryable: true, Err: err}
	}

	var posts []PostData
	doc.Find(".feed-shared-update-v2, .occludable-update").EachWithBreak(func(idx int, sel *goquery.Selection) bool {
		if len(posts) >= limit {
			return false
		}
		if post, ok := parsePost(sel, pageID, idx); ok {
			posts = append(posts, post)
		}
		return true
	})

	s.log.Debug("Scraped posts", "page_id", pageID, "count", len(posts))
	return posts, nil
}

func (s *linkedinScraper) ScrapeEmployees(ctx context.Context, pageID string, limit int) ([]EmployeeData, error) {
	url := fmt.Sprintf("%s/%s/people/", s.cfg.BaseURL, pageID)

	res, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{PageID: pageID, Err: err}
		}
		return nil, &ScrapeError{PageID: pageID, Message: "people request failed", Retryable: true, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return nil, &ScrapeError{PageID: pageID, Message: "parse people document", Retryable: true, Err: err}
	}

	var employees []EmployeeData
	doc.Find(".org-people-profile-card, .artdeco-entity-lockup, .org-people-profiles-module__profile-list li").
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(employees) >= limit {
				return false
			}
			if emp, ok := parseEmployee(sel, pageID); ok {
				employees = append(employees, emp)
			}
			return true
		})

	s.log.Debug("Scraped employees", "page_id", pageID, "count", len(employees))
	return employees, nil
}

// ScrapeAll fetches the page plus its dependent collections. The page is
// mandatory; posts and employees degrade to empty slices on failure.
func (s *linkedinScraper) ScrapeAll(ctx context.Context, pageID string, postsLimit, employeesLimit int) (*Snapshot, error) {
	page, err := s.ScrapePage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	posts, err := s.ScrapePosts(ctx, pageID, postsLimit)
	if err != nil {
		s.log.Warn("Could not scrape posts", "page_id", pageID, "error", err)
		posts = nil
	}

	employees, err := s.ScrapeEmployees(ctx, pageID, employeesLimit)
	if err != nil {
		s.log.Warn("Could not scrape employees", "page_id", pageID, "error", err)
		employees = nil
	}

	return &Snapshot{
		Page:      page,
		Posts:     posts,
		Employees: employees,
		// Comments are not visible to anonymous sessions.
		Comments: []CommentData{},
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func extractLinkedinID(res *resty.Response) string {
	raw := res.RawResponse
	if raw == nil || raw.Request == nil || raw.Request.URL == nil {
		return ""
	}
	if match := linkedinIDRe.FindStringSubmatch(raw.Request.URL.String()); match != nil {
		return match[1]
	}
	return ""
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func extractCompanyName(doc *goquery.Document) string {
	name := firstText(doc,
		"h1.org-top-card-summary__title",
		"h1[class*='org-top-card']",
		"span.org-top-card-summary__title",
		".org-top-card-summary-info-list__info-item",
	)
	if name != "" {
		return name
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractProfilePicture(doc *goquery.Document) string {
	selectors := []string{
		"img.org-top-card-primary-content__logo",
		"img[class*='org-top-card']",
		".org-top-card-primary-content__logo img",
		"img.EntityPhoto-square-5",
	}
	for _, selector := range selectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	return firstText(doc,
		"p.org-about-us-organization-description__text",
		".org-about-us-organization-description__text",
		"section.org-about-module p",
		".org-page-details-module__card-spacing p",
	)
}

func extractWebsite(doc *goquery.Document) string {
	selectors := []string{
		"a[data-test-id='about-us__website'] span",
		".org-about-us-company-module__website a",
		"a[href*='://'][target='_blank']",
	}
	website := ""
	for _, selector := range selectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			href, _ := sel.Attr("href")
			if text != "" && (strings.Contains(text, "http") || strings.Contains(text, "www") || strings.Contains(text, ".com")) {
				website = text
				return false
			}
			if href != "" && !strings.Contains(href, "linkedin.com") {
				website = href
				return false
			}
			return true
		})
		if website != "" {
			return website
		}
	}
	return ""
}

// extractDefinition walks the about-section definition list: a <dt>
// whose label contains one of the keywords yields its sibling <dd>.
func extractDefinition(doc *goquery.Document, keywords ...string) string {
	value := ""
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		for _, keyword := range keywords {
			if strings.Contains(label, keyword) {
				value = strings.TrimSpace(dt.NextFiltered("dd").Text())
				return value == ""
			}
		}
		return true
	})
	return value
}

func extractFollowerCount(doc *goquery.Document) int {
	selectors := []string{
		".org-top-card-summary-info-list__info-item",
		"span[class*='followers']",
		".org-top-card-primary-actions__followers",
	}
	count := 0
	for _, selector := range selectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.ToLower(strings.TrimSpace(sel.Text()))
			if strings.Contains(text, "follower") {
				count = parseFollowerCount(text)
				return false
			}
			return true
		})
		if count > 0 {
			return count
		}
	}
	return count
}

func parsePost(sel *goquery.Selection, pageID string, index int) (PostData, bool) {
	content := strings.TrimSpace(sel.Find(
		".feed-shared-update-v2__description, .feed-shared-text, .update-components-text",
	).First().Text())
	if content == "" {
		return PostData{}, false
	}

	post := PostData{
		PageID:  pageID,
		Content: content,
	}
	if len(post.Content) > 2000 {
		post.Content = post.Content[:2000]
	}

	sel.Find(".social-details-social-counts span").Each(func(_ int, countSel *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(countSel.Text()))
		count := parseEngagementCount(text)
		switch {
		case strings.Contains(text, "like") || strings.Contains(text, "reaction"):
			post.LikeCount = count
		case strings.Contains(text, "comment"):
			post.CommentCount = count
		case strings.Contains(text, "share") || strings.Contains(text, "repost"):
			post.ShareCount = count
		}
	})

	if img := sel.Find(".feed-shared-image img, .update-components-image img").First(); img.Length() > 0 {
		post.MediaURL, _ = img.Attr("src")
		post.MediaType = "image"
	}
	if video := sel.Find("video, .feed-shared-linkedin-video").First(); video.Length() > 0 {
		if src, ok := video.Attr("src"); ok {
			post.MediaURL = src
		} else if src, ok := video.Attr("data-sources"); ok {
			post.MediaURL = src
		}
		post.MediaType = "video"
	}

	post.PostID = generatePostID(pageID, content, index)
	return post, true
}

func parseEmployee(sel *goquery.Selection, pageID string) (EmployeeData, bool) {
	name := strings.TrimSpace(sel.Find(
		".org-people-profile-card__profile-title, .artdeco-entity-lockup__title, .lt-line-clamp--single-line",
	).First().Text())
	if name == "" {
		return EmployeeData{}, false
	}

	emp := EmployeeData{
		PageID: pageID,
		Name:   name,
		Designation: strings.TrimSpace(sel.Find(
			".artdeco-entity-lockup__subtitle, .org-people-profile-card__profile-info, .t-14",
		).First().Text()),
		Location: strings.TrimSpace(sel.Find(
			".artdeco-entity-lockup__caption, .org-people-profile-card__location",
		).First().Text()),
	}

	if href, ok := sel.Find("a[href*='/in/']").First().Attr("href"); ok && href != "" {
		if !strings.HasPrefix(href, "http") {
			href = "https://www.linkedin.com" + href
		}
		emp.ProfileURL = href
	}
	if src, ok := sel.Find("img.EntityPhoto-circle-5, img[class*='profile']").First().Attr("src"); ok {
		emp.ProfilePictureURL = src
	}

	return emp, true
}
