// Package authz decides whether a role holds a right. The role/right table
// is an embedded casbin RBAC policy.
package authz

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"

	"github.com/casbin/casbin/v3"
)

//go:embed model.conf policy.csv
var embedFS embed.FS

// Enforcer checks (role, right) pairs against the policy.
type Enforcer struct {
	e *casbin.Enforcer
}

// NewEnforcer loads the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	dir, err := os.MkdirTemp("", "meal-ordering-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model.conf", "policy.csv"); err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(filepath.Join(dir, "model.conf"), filepath.Join(dir, "policy.csv"))
	if err != nil {
		return nil, err
	}
	return &Enforcer{e: e}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// Allowed reports whether role holds right. Unknown roles hold nothing.
func (e *Enforcer) Allowed(role domain.Role, right string) (bool, error) {
	if role == "" || right == "" {
		return false, nil
	}
	return e.e.Enforce(string(role), right)
}
