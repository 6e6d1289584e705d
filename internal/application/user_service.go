package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	"github.com/oksasatya/today-todo/pkg/helpers"
	"github.com/oksasatya/today-todo/pkg/optional"
)

const (
	maxNicknameLen = 64
	maxBioLen      = 200
)

var avatarExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

type UserService struct {
	Repo         repo.UserRepository
	Follows      repo.FollowRepository
	Sessions     SessionStore
	JWT          *helpers.JWTManager
	SessionTTL   time.Duration
	GCS          *storage.Client
	GCSBucket    string
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string

	// DefaultAvatar is assigned on register; entity.DefaultProfileImage when empty.
	DefaultAvatar string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Profile is a user with follow counters.
type Profile struct {
	User           *entity.User
	FollowersCount int
	FollowingCount int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

type UpdateProfileInput struct {
	Nickname optional.Field[string]
	Bio      optional.Field[string]
}

func NewUserService(users repo.UserRepository, follows repo.FollowRepository, sessions SessionStore, jwt *helpers.JWTManager, sessionTTL time.Duration, logger *logrus.Logger) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UserService{
		Repo:       users,
		Follows:    follows,
		Sessions:   sessions,
		JWT:        jwt,
		SessionTTL: sessionTTL,
		Logger:     logger,
	}
}

// WithStorage enables avatar uploads to a GCS bucket.
func (s *UserService) WithStorage(gcs *storage.Client, bucket string) *UserService {
	s.GCS = gcs
	s.GCSBucket = bucket
	return s
}

// WithSearch enables the Elasticsearch user index.
func (s *UserService) WithSearch(es *elasticsearch.Client, index string) *UserService {
	s.ES = es
	s.ESUsersIndex = index
	return s
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" {
		return nil, invalid("username", "is required")
	}
	if in.Email == "" {
		return nil, invalid("email", "is required")
	}
	if in.Password == "" {
		return nil, invalid("password", "is required")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		Password:     hash,
		Nickname:     strings.TrimSpace(in.Nickname),
		ProfileImage: entity.DefaultProfileImage,
	}
	if s.DefaultAvatar != "" {
		u.ProfileImage = s.DefaultAvatar
	}
	if u.Nickname == "" {
		u.Nickname = u.Username
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Authenticate validates username/password and returns the user without issuing tokens.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).Error("lookup user for login failed")
		}
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}
	sess := Session{UserID: u.ID, SessionID: sid, Username: u.Username, Nickname: u.DisplayName()}
	if err := s.Sessions.SaveSession(ctx, sess, s.SessionTTL); err != nil {
		return TokenPair{}, fmt.Errorf("save session: %w", err)
	}
	return pair, nil
}

func (s *UserService) signPair(userID int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// belong to the current session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	sess, err := s.Sessions.GetSession(ctx, u.ID)
	if err != nil || sess == nil || sess.SessionID != claims.SessionID {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, 0, err
	}
	return pair, u.ID, nil
}

func (s *UserService) Logout(ctx context.Context, userID int64) error {
	return s.Sessions.DeleteSession(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.Follows.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count follows: %w", err)
	}
	return &Profile{User: u, FollowersCount: followers, FollowingCount: following}, nil
}

// UpdateProfile changes nickname and bio. A blank nickname falls back to the username.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*Profile, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if v, ok := in.Nickname.Get(); ok {
		v = strings.TrimSpace(v)
		if utf8.RuneCountInString(v) > maxNicknameLen {
			return nil, invalid("nickname", fmt.Sprintf("must be at most %d characters long", maxNicknameLen))
		}
		if v == "" {
			v = u.Username
		}
		u.Nickname = v
	}
	if v, ok := in.Bio.Get(); ok {
		if utf8.RuneCountInString(v) > maxBioLen {
			return nil, invalid("bio", fmt.Sprintf("must be at most %d characters long", maxBioLen))
		}
		u.Bio = v
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.Sessions.UpdateSession(ctx, u.ID, map[string]any{"nickname": u.DisplayName()}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("refresh session fields failed")
	}
	_ = s.indexUser(ctx, u)
	return s.GetProfile(ctx, userID)
}

// UploadAvatar stores the image in GCS and points the profile at its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !avatarExtensions[ext] {
		return "", ErrUnsupportedImage
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageUnavailable
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	objectPath := helpers.AvatarObjectPath(userID, ext)
	url, err := helpers.UploadAvatar(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	u.ProfileImage = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", fmt.Errorf("update user: %w", err)
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// DeleteAccount removes the user with everything they own and ends the session.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.Sessions.DeleteSession(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("delete session failed")
	}
	s.unindexUser(ctx, userID)
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return u, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":            u.ID,
		"username":      u.Username,
		"nickname":      u.DisplayName(),
		"profile_image": u.ProfileImage,
		"created_at":    u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(u.ID, 10), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) unindexUser(ctx context.Context, userID int64) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(userID, 10)}.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a multi_match search on username and nickname.
// Without a configured index the result is empty.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]entity.UserSummary, error) {
	q = strings.TrimSpace(q)
	if s.ES == nil || s.ESUsersIndex == "" || q == "" {
		return []entity.UserSummary{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "nickname"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.UserSummary `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.UserSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
