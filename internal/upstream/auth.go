package upstream

import (
	"context"
	"strings"

	appErrors "github.com/kiosklab/visita-gateway/pkg/errors"
)

// Account is the backend's view of an authenticated user.
type Account struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	DeptID   string `json:"dept_id"`
	ProfID   string `json:"prof_id"`
}

// CreateAccountRequest is the payload for provisioning a backend account.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	DeptID   string `json:"dept_id,omitempty"`
	ProfID   string `json:"prof_id,omitempty"`
}

// Login verifies credentials against the backend. The backend answers 401 on
// bad credentials, which is mapped to the invalid-credentials error rather
// than a generic upstream failure.
func (c *Client) Login(ctx context.Context, username, password string) (Account, error) {
	body := map[string]string{
		"username": strings.TrimSpace(username),
		"password": password,
	}
	var res struct {
		Account
		User *Account `json:"user"`
	}
	err := c.post(ctx, "/api/login", body, &res)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Status == 401 || appErr.Status == 403 {
			return Account{}, appErrors.ErrInvalidCredentials
		}
		return Account{}, err
	}
	account := res.Account
	if res.User != nil {
		account = *res.User
	}
	if account.Username == "" {
		account.Username = strings.TrimSpace(username)
	}
	return account, nil
}

// Logout notifies the backend that a session ended. Gateway tokens are
// stateless, so this is best effort.
func (c *Client) Logout(ctx context.Context, username string) error {
	return c.post(ctx, "/api/logout", map[string]string{"username": username}, nil)
}

// CreateAccount provisions a backend account.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) error {
	return c.post(ctx, "/api/users", req, nil)
}
