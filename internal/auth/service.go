package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

type usersStore interface {
	Create(ctx context.Context, email, passwordHash string) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, string, error)
	GetByID(ctx context.Context, id int) (*Principal, error)
}

// SessionEvent is pushed to subscribers whenever a session is
// established or revoked.
type SessionEvent struct {
	UserID   int
	SignedIn bool
}

type Service struct {
	users       usersStore
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)

	subsMux     sync.Mutex
	subscribers []chan SessionEvent
}

func NewService(
	users usersStore,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// SignUp creates the account and immediately establishes a session for it.
func (as *Service) SignUp(ctx context.Context, email, password string) (*Principal, string, error) {
	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	principal, err := as.users.Create(ctx, email, passwordHash)
	if err != nil {
		return nil, "", err
	}

	token, err := as.startSession(ctx, principal.ID, time.Now())
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

func (as *Service) SignIn(ctx context.Context, email, password string) (*Principal, string, error) {
	principal, passwordHash, err := as.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrWrongCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !pkg.CheckPasswordHash(password, passwordHash) {
		return nil, "", ErrWrongCredentials
	}

	token, err := as.startSession(ctx, principal.ID, time.Now())
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

func (as *Service) SignOut(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoSession
		}
		return err
	}

	userID, _, err := parseSessionValue(cmd.Val())
	if err != nil {
		return err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return err
	}

	as.notify(SessionEvent{UserID: userID, SignedIn: false})

	return nil
}

func (as *Service) GetUser(ctx context.Context, id int) (*Principal, error) {
	return as.users.GetByID(ctx, id)
}

// Subscribe returns a channel delivering session-changed events for the
// lifetime of the process. Slow consumers lose events rather than block
// sign-in / sign-out.
func (as *Service) Subscribe() <-chan SessionEvent {
	as.subsMux.Lock()
	defer as.subsMux.Unlock()

	ch := make(chan SessionEvent, 16)
	as.subscribers = append(as.subscribers, ch)
	return ch
}

func (as *Service) notify(event SessionEvent) {
	as.subsMux.Lock()
	defer as.subsMux.Unlock()

	for _, ch := range as.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (as *Service) startSession(ctx context.Context, userID int, createdAt time.Time) (string, error) {
	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, encodeSessionValue(userID, createdAt), 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	as.notify(SessionEvent{UserID: userID, SignedIn: true})

	return token, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			log.Warnf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
	}
}
