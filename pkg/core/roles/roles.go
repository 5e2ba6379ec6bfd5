package roles

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jakechorley/guard-roster/pkg/core/model"
)

// Role token format: "role:<name>[:<key=value>&...]"
const (
	rolePrefix     = "role"
	roleDelimiter  = ":"
	paramDelimiter = "&"
	kvDelimiter    = "="

	paramBranch         = "branch"
	paramPopulationType = "population_type"
)

// ErrInvalidRole is returned by ValidateRole for tokens that do not describe a usable role
var ErrInvalidRole = errors.New("invalid role")

// Name is a recognised role name
type Name string

const (
	NameManager Name = "manager"
	NameAdmin   Name = "admin"
)

// Kind discriminates decoded roles
type Kind int

const (
	// KindNone is the result of decoding an unrecognised or malformed token. It never authorises anything.
	KindNone Kind = iota
	KindAdmin
	KindManager
)

// Role is a decoded role token
type Role struct {
	Kind Kind

	// Manager scope, set only for KindManager
	Branch         string
	PopulationType model.PopulationType

	// Params holds every extra parameter of the token, including the ones decoded into typed fields
	Params map[string]string
}

// Admin returns the admin role
func Admin() Role {
	return Role{Kind: KindAdmin}
}

// Manager returns a branch manager role scoped to a branch and population type
func Manager(branch string, populationType model.PopulationType) Role {
	return Role{
		Kind:           KindManager,
		Branch:         branch,
		PopulationType: populationType,
		Params: map[string]string{
			paramBranch:         branch,
			paramPopulationType: string(populationType),
		},
	}
}

// Name returns the role name, or "" for KindNone
func (r Role) Name() Name {
	switch r.Kind {
	case KindAdmin:
		return NameAdmin
	case KindManager:
		return NameManager
	default:
		return ""
	}
}

// String encodes the role back into its token form. KindNone encodes to "".
func (r Role) String() string {
	name := r.Name()
	if name == "" {
		return ""
	}

	components := []string{rolePrefix, string(name)}
	if len(r.Params) > 0 {
		// Sorted keys keep the encoding deterministic
		keys := make([]string, 0, len(r.Params))
		for k := range r.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+kvDelimiter+r.Params[k])
		}
		components = append(components, strings.Join(pairs, paramDelimiter))
	}
	return strings.Join(components, roleDelimiter)
}

// ParseRole decodes a role token. It never fails: tokens that are malformed or name an
// unknown role decode to a KindNone role, which callers must treat as "not authorised".
func ParseRole(token string) Role {
	components := strings.Split(token, roleDelimiter)
	if len(components) < 2 || len(components) > 3 || components[0] != rolePrefix {
		return Role{}
	}

	var params map[string]string
	if len(components) == 3 {
		var ok bool
		params, ok = parseParams(components[2])
		if !ok {
			return Role{}
		}
	}

	switch Name(components[1]) {
	case NameAdmin:
		return Role{Kind: KindAdmin, Params: params}
	case NameManager:
		return Role{
			Kind:           KindManager,
			Branch:         params[paramBranch],
			PopulationType: model.PopulationType(params[paramPopulationType]),
			Params:         params,
		}
	default:
		return Role{}
	}
}

// parseParams decodes "k1=v1&k2=v2". Every pair must contain exactly one '='.
func parseParams(s string) (map[string]string, bool) {
	params := make(map[string]string)
	for _, pair := range strings.Split(s, paramDelimiter) {
		key, value, found := strings.Cut(pair, kvDelimiter)
		if !found || key == "" || strings.Contains(value, kvDelimiter) {
			return nil, false
		}
		params[key] = value
	}
	return params, true
}

// ValidateRole is the strict counterpart of ParseRole, used when a role is about to be granted
func ValidateRole(token string) (Role, error) {
	role := ParseRole(token)
	switch role.Kind {
	case KindAdmin:
		if len(role.Params) > 0 {
			return Role{}, fmt.Errorf("%w: admin role takes no parameters", ErrInvalidRole)
		}
	case KindManager:
		if role.Branch == "" || role.PopulationType == "" {
			return Role{}, fmt.Errorf("%w: manager role requires %s and %s", ErrInvalidRole, paramBranch, paramPopulationType)
		}
	default:
		return Role{}, fmt.Errorf("%w: %q", ErrInvalidRole, token)
	}
	return role, nil
}

// DecodeRoles decodes every role token of a guard, in order. A nil guard has no roles.
func DecodeRoles(guard *model.Guard) []Role {
	if guard == nil {
		return nil
	}
	decoded := make([]Role, 0, len(guard.Roles))
	for _, token := range guard.Roles {
		decoded = append(decoded, ParseRole(token))
	}
	return decoded
}
