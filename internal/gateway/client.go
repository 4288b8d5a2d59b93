// Package gateway implements the remote data service boundary over gRPC.
package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/logger"
	"github.com/dtroode/tododash/internal/model"
)

// Error is a failure reported by the remote service.
// Its text is the human-readable message returned by the service.
type Error struct {
	Code    codes.Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Config holds connection parameters for Dial.
type Config struct {
	Target      string
	AccessKey   string
	UseTLS      bool
	SessionFile string
}

// Client implements model.Gateway against the tododash gRPC service.
type Client struct {
	conn      grpc.ClientConnInterface
	closer    func() error
	auth      *rpc.AuthClient
	tables    *rpc.TablesClient
	store     *SessionFile
	events    *broadcaster
	logger    *logger.Logger
	nowFunc   func() time.Time
	refreshes singleflight.Group

	mu      sync.Mutex
	session *model.Session
	loaded  bool
}

// Dial connects to the service described by cfg.
func Dial(cfg Config, l *logger.Logger) (*Client, error) {
	if cfg.Target == "" {
		return nil, errors.New("service url is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("access key is required")
	}

	creds := insecure.NewCredentials()
	if cfg.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(cfg.Target,
		grpc.WithTransportCredentials(creds),
		grpc.WithChainUnaryInterceptor(apiKeyInterceptor(cfg.AccessKey)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client: %w", err)
	}

	c := NewClient(conn, NewSessionFile(cfg.SessionFile), l)
	c.closer = conn.Close
	return c, nil
}

// NewClient creates a Client over an existing connection. The connection
// must already attach the access key to outgoing calls.
func NewClient(conn grpc.ClientConnInterface, store *SessionFile, l *logger.Logger) *Client {
	return &Client{
		conn:    conn,
		closer:  func() error { return nil },
		auth:    rpc.NewAuthClient(conn),
		tables:  rpc.NewTablesClient(conn),
		store:   store,
		events:  newBroadcaster(),
		logger:  l,
		nowFunc: time.Now,
	}
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, rpc.MetadataAPIKey, key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// GetSession returns the current session, restoring it from the session
// file on first use and refreshing it when the access token has expired.
func (c *Client) GetSession(ctx context.Context) (*model.Session, error) {
	s, err := c.currentSession(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	cp := *s
	return &cp, nil
}

func (c *Client) currentSession(ctx context.Context) (*model.Session, error) {
	c.mu.Lock()
	if !c.loaded {
		s, err := c.store.Load()
		if err != nil {
			c.logger.Warn("failed to restore session", "error", err)
		}
		c.session = s
		c.loaded = true
	}
	s := c.session
	c.mu.Unlock()

	if s == nil || !s.Expired(c.nowFunc()) {
		return s, nil
	}

	if s.RefreshToken == "" {
		c.replaceSession(nil)
		return nil, nil
	}

	v, err, _ := c.refreshes.Do(s.RefreshToken, func() (any, error) {
		return c.refreshSession(ctx, s.RefreshToken)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Session), nil
}

// refreshSession exchanges refreshToken for a new session. Calls sharing a
// refresh token are collapsed; a token that was already rotated by another
// call yields the session it was rotated into.
func (c *Client) refreshSession(ctx context.Context, refreshToken string) (*model.Session, error) {
	if cur, ok := c.holding(refreshToken); !ok {
		return cur, nil
	}

	in, err := rpc.RefreshTokenToStruct(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encode refresh request: %w", err)
	}
	out, err := c.auth.Refresh(ctx, in)
	if err == nil {
		var refreshed *model.Session
		if refreshed, err = sessionFromStruct(out); err == nil {
			if c.swapSession(refreshToken, refreshed) {
				return refreshed, nil
			}
			cur, _ := c.holding(refreshToken)
			return cur, nil
		}
	} else {
		err = fromRPC(err)
	}

	c.logger.Debug("session refresh failed", "error", err)
	var rpcErr *Error
	if errors.As(err, &rpcErr) && rpcErr.Code == codes.Unauthenticated {
		if c.swapSession(refreshToken, nil) {
			return nil, nil
		}
		cur, _ := c.holding(refreshToken)
		return cur, nil
	}
	return nil, err
}

// rotatedFrom returns the current session and whether it still holds
// refreshToken.
func (c *Client) holding(refreshToken string) (*model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, false
	}
	return c.session, c.session.RefreshToken == refreshToken
}

// swapSession replaces the current session with s only while it still holds
// refreshToken.
func (c *Client) swapSession(refreshToken string, s *model.Session) bool {
	c.mu.Lock()
	if c.session == nil || c.session.RefreshToken != refreshToken {
		c.mu.Unlock()
		return false
	}
	c.session = s
	c.mu.Unlock()

	c.commit(s)
	return true
}

// replaceSession stores s, persists it and notifies listeners.
func (c *Client) replaceSession(s *model.Session) {
	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.mu.Unlock()

	c.commit(s)
}

func (c *Client) commit(s *model.Session) {
	if err := c.store.Save(s); err != nil {
		c.logger.Warn("failed to persist session", "error", err)
	}
	c.events.publish(s)
}

// OnSessionChange registers fn for every session change. Each
// registration receives changes in order on its own goroutine.
func (c *Client) OnSessionChange(fn func(*model.Session)) model.Subscription {
	return c.events.subscribe(fn)
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	in, err := rpc.Credentials{Email: email, Password: password}.ToStruct()
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	out, err := c.auth.SignIn(ctx, in)
	if err != nil {
		return fromRPC(err)
	}

	s, err := sessionFromStruct(out)
	if err != nil {
		return err
	}
	c.replaceSession(s)
	return nil
}

// SignUp registers a new account. It does not sign the user in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	in, err := rpc.Credentials{Email: email, Password: password}.ToStruct()
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if _, err := c.auth.SignUp(ctx, in); err != nil {
		return fromRPC(err)
	}
	return nil
}

// SignOut revokes the current session. Without a session it is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.currentSession(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}

	in, err := rpc.RefreshTokenToStruct(s.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encode sign out request: %w", err)
	}
	if _, err := c.auth.SignOut(withBearer(ctx, s), in); err != nil {
		return fromRPC(err)
	}

	c.replaceSession(nil)
	return nil
}

// GetUser asks the service who the current access token belongs to.
func (c *Client) GetUser(ctx context.Context) (model.User, error) {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return model.User{}, err
	}
	out, err := c.auth.GetUser(ctx, &emptypb.Empty{})
	if err != nil {
		return model.User{}, fromRPC(err)
	}
	return userFromStruct(out.AsMap())
}

// SelectAll returns every row of table visible to the caller.
func (c *Client) SelectAll(ctx context.Context, table string, order model.Order) ([]model.Row, error) {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}
	in, err := rpc.SelectRequest{Table: table, OrderBy: order.Column, Ascending: order.Ascending}.ToStruct()
	if err != nil {
		return nil, fmt.Errorf("failed to encode select: %w", err)
	}
	out, err := c.tables.Select(ctx, in)
	if err != nil {
		return nil, fromRPC(err)
	}
	return rpc.RowsFromList(out)
}

// Insert inserts rows into table and returns the rows as stored.
func (c *Client) Insert(ctx context.Context, table string, rows ...model.Row) ([]model.Row, error) {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}
	in, err := rpc.InsertRequest{Table: table, Rows: rows}.ToStruct()
	if err != nil {
		return nil, fmt.Errorf("failed to encode insert: %w", err)
	}
	out, err := c.tables.Insert(ctx, in)
	if err != nil {
		return nil, fromRPC(err)
	}
	return rpc.RowsFromList(out)
}

// UpdateByKey applies patch to the rows of table matching key.
func (c *Client) UpdateByKey(ctx context.Context, table string, key model.Key, patch model.Row) error {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return err
	}
	in, err := rpc.UpdateRequest{Table: table, KeyColumn: key.Column, KeyValue: key.Value, Patch: patch}.ToStruct()
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}
	if _, err := c.tables.Update(ctx, in); err != nil {
		return fromRPC(err)
	}
	return nil
}

// DeleteByKey removes the rows of table matching key.
func (c *Client) DeleteByKey(ctx context.Context, table string, key model.Key) error {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return err
	}
	in, err := rpc.DeleteRequest{Table: table, KeyColumn: key.Column, KeyValue: key.Value}.ToStruct()
	if err != nil {
		return fmt.Errorf("failed to encode delete: %w", err)
	}
	if _, err := c.tables.Delete(ctx, in); err != nil {
		return fromRPC(err)
	}
	return nil
}

// Export asks the service to archive the caller's rows of table and
// returns the object key of the archive.
func (c *Client) Export(ctx context.Context, table string) (string, error) {
	ctx, err := c.authorize(ctx)
	if err != nil {
		return "", err
	}
	in, err := rpc.TableToStruct(table)
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	out, err := c.tables.Export(ctx, in)
	if err != nil {
		return "", fromRPC(err)
	}
	return out.GetValue(), nil
}

// Close releases subscriptions and the underlying connection.
func (c *Client) Close() error {
	c.events.close()
	return c.closer()
}

// authorize attaches the bearer token of the current session, if any.
func (c *Client) authorize(ctx context.Context) (context.Context, error) {
	s, err := c.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	return withBearer(ctx, s), nil
}

func withBearer(ctx context.Context, s *model.Session) context.Context {
	if s == nil || s.AccessToken == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, rpc.MetadataAuthorization, "Bearer "+s.AccessToken)
}

func fromRPC(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &Error{Code: st.Code(), Message: st.Message()}
}
