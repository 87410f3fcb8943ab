package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	repo "github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
	"github.com/Maniblazestarboy/api-linkado/pkg/mailer"
	"github.com/Maniblazestarboy/api-linkado/pkg/mailer/templates"
	"github.com/Maniblazestarboy/api-linkado/pkg/validation"
)

const (
	submissionsListKey = "submissions:list"

	// MaxLogoBytes is the upload limit for submission logos.
	MaxLogoBytes int64 = 5 << 20
)

var allowedLogoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

var whitespace = regexp.MustCompile(`\s+`)

var submissionsReceived = expvar.NewInt("submissions_received")

// FileStore persists uploaded files and returns the reference to store on the
// submission (a file name or a URL).
type FileStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// SubmissionIndex is the full-text index over submissions.
type SubmissionIndex interface {
	Index(ctx context.Context, s *entity.Submission) error
	Search(ctx context.Context, q string, size int) ([]*entity.Submission, error)
}

// Publisher enqueues a JSON message.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// SubmissionInput is the raw public form. Links may hold several values or a
// single comma separated value.
type SubmissionInput struct {
	Name      string   `json:"nome" form:"nome"`
	Contact   string   `json:"contato" form:"contato"`
	Plan      string   `json:"plano" form:"plano"`
	Instagram string   `json:"instagram" form:"instagram"`
	Links     []string `json:"links" form:"links"`
	Notes     string   `json:"observacoes" form:"observacoes"`
}

// Upload is an optional file sent along with the form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type submissionRules struct {
	Name      string   `json:"nome" validate:"required,max=120"`
	Contact   string   `json:"contato" validate:"required,max=200"`
	Plan      string   `json:"plano" validate:"required,oneof=essencial profissional premium"`
	Instagram string   `json:"instagram" validate:"required,instagram"`
	Links     []string `json:"links" validate:"min=1,max=20,dive,required,max=500"`
	Notes     string   `json:"observacoes" validate:"max=300"`
}

// SubmissionConfig carries the settings the service needs from config.Config.
type SubmissionConfig struct {
	NotifyEmail string
	AdminURL    string
	CacheTTL    time.Duration
}

type SubmissionService struct {
	Repo     repo.SubmissionRepository
	Files    FileStore
	Index    SubmissionIndex
	Redis    redis.Cmdable
	Pub      Publisher
	Logger   *logrus.Logger
	Cfg      SubmissionConfig
	validate *validator.Validate
	now      func() time.Time
}

func NewSubmissionService(r repo.SubmissionRepository, files FileStore, index SubmissionIndex, rdb redis.Cmdable, pub Publisher, logger *logrus.Logger, cfg SubmissionConfig) *SubmissionService {
	return &SubmissionService{
		Repo:     r,
		Files:    files,
		Index:    index,
		Redis:    rdb,
		Pub:      pub,
		Logger:   logger,
		Cfg:      cfg,
		validate: validation.New(),
		now:      time.Now,
	}
}

// NormalizeLinks trims every link, splits comma separated values and adds an
// http:// scheme to links without one.
func NormalizeLinks(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, link := range strings.Split(item, ",") {
			link = strings.TrimSpace(link)
			if link == "" {
				continue
			}
			if !strings.HasPrefix(link, "http") {
				link = "http://" + link
			}
			out = append(out, link)
		}
	}
	return out
}

// NormalizeInstagram strips whitespace and leading @ signs, then adds exactly one @.
func NormalizeInstagram(handle string) string {
	handle = whitespace.ReplaceAllString(strings.TrimSpace(handle), "")
	handle = strings.TrimLeft(handle, "@")
	return "@" + handle
}

func missingFields(in SubmissionInput) []string {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(in.Contact) == "" {
		missing = append(missing, "contato")
	}
	if strings.TrimSpace(in.Plan) == "" {
		missing = append(missing, "plano")
	}
	if strings.TrimSpace(in.Instagram) == "" {
		missing = append(missing, "instagram")
	}
	if len(NormalizeLinks(in.Links)) == 0 {
		missing = append(missing, "links")
	}
	return missing
}

// Submit validates and stores a form entry. Indexing, cache invalidation and
// the notification are best effort and never fail the submission.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput, logo *Upload) (*entity.Submission, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	rules := submissionRules{
		Name:      strings.TrimSpace(in.Name),
		Contact:   strings.TrimSpace(in.Contact),
		Plan:      strings.ToLower(strings.TrimSpace(in.Plan)),
		Instagram: NormalizeInstagram(in.Instagram),
		Links:     NormalizeLinks(in.Links),
		Notes:     strings.TrimSpace(in.Notes),
	}
	if err := s.validate.Struct(rules); err != nil {
		return nil, err
	}

	sub := &entity.Submission{
		Name:      rules.Name,
		Contact:   rules.Contact,
		Plan:      entity.Plan(rules.Plan),
		Instagram: rules.Instagram,
		Links:     rules.Links,
		Notes:     rules.Notes,
		Status:    entity.StatusNew,
	}

	if logo != nil {
		ref, err := s.storeLogo(ctx, logo)
		if err != nil {
			return nil, err
		}
		sub.Logo = ref
	}

	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	submissionsReceived.Add(1)

	s.dropListCache(ctx)
	s.index(ctx, sub)
	s.notify(ctx, sub)
	return sub, nil
}

func (s *SubmissionService) storeLogo(ctx context.Context, logo *Upload) (string, error) {
	ext, ok := allowedLogoTypes[strings.ToLower(logo.ContentType)]
	if !ok {
		return "", ErrInvalidUpload
	}
	if logo.Size > MaxLogoBytes {
		return "", ErrUploadTooLarge
	}
	if s.Files == nil {
		return "", errors.New("file store not configured")
	}
	if e := strings.ToLower(filepath.Ext(logo.Filename)); e == ".jpg" || e == ".jpeg" || e == ".png" {
		ext = e
	}
	name := fmt.Sprintf("logo-%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	// Guard against bodies larger than the declared size.
	body := io.LimitReader(logo.Body, MaxLogoBytes+1)
	ref, err := s.Files.Save(ctx, name, logo.ContentType, body)
	if err != nil {
		return "", fmt.Errorf("store logo: %w", err)
	}
	return ref, nil
}

// List returns all submissions, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]*entity.Submission, error) {
	if s.Redis != nil {
		var cached []*entity.Submission
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, submissionsListKey, &cached)
		if err != nil {
			helpers.LogWarn(s.Logger, "submissions cache read failed", err, logrus.Fields{"key": submissionsListKey})
		} else if ok {
			return cached, nil
		}
	}

	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if list == nil {
		list = []*entity.Submission{}
	}

	if s.Redis != nil && s.Cfg.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, submissionsListKey, list, s.Cfg.CacheTTL); err != nil {
			helpers.LogWarn(s.Logger, "submissions cache write failed", err, logrus.Fields{"key": submissionsListKey})
		}
	}
	return list, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*entity.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionService) UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) (*entity.Submission, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}
	sub, err := s.Repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	s.dropListCache(ctx)
	s.index(ctx, sub)
	return sub, nil
}

// Search queries the index. Without an index it returns an empty result.
func (s *SubmissionService) Search(ctx context.Context, q string, size int) ([]*entity.Submission, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []*entity.Submission{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search submissions: %w", err)
	}
	return hits, nil
}

func (s *SubmissionService) dropListCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, submissionsListKey); err != nil {
		helpers.LogWarn(s.Logger, "submissions cache invalidation failed", err, logrus.Fields{"key": submissionsListKey})
	}
}

func (s *SubmissionService) index(ctx context.Context, sub *entity.Submission) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Index.Index(c, sub); err != nil {
		helpers.LogWarn(s.Logger, "submission index failed", err, logrus.Fields{"submission_id": sub.ID})
	}
}

func (s *SubmissionService) notify(ctx context.Context, sub *entity.Submission) {
	if s.Pub == nil || s.Cfg.NotifyEmail == "" {
		return
	}
	job := mailer.EmailJob{
		To:       s.Cfg.NotifyEmail,
		Template: templates.SubmissionReceived,
		Data:     templates.NewSubmissionData(sub, s.Cfg.AdminURL),
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Pub.PublishJSON(c, job); err != nil {
		helpers.LogWarn(s.Logger, "publish submission notification failed", err, logrus.Fields{"submission_id": sub.ID})
	}
}
