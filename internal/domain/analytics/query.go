package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Filters narrows an analytics query to a subset of providers and models and
// bounds the size of ranked lists in the result.
type Filters struct {
	Providers             []string `json:"providers,omitempty"`
	Models                []string `json:"models,omitempty"`
	TopUsersLimit         int      `json:"top_users_limit,omitempty"`
	TopConversationsLimit int      `json:"top_conversations_limit,omitempty"`
}

// Fingerprint returns a deterministic string encoding of the filters for use
// in cache keys. Provider and model lists are sorted so that equivalent
// filters fingerprint identically. Empty filters fingerprint to "".
func (f Filters) Fingerprint() string {
	if len(f.Providers) == 0 && len(f.Models) == 0 && f.TopUsersLimit == 0 && f.TopConversationsLimit == 0 {
		return ""
	}
	providers := append([]string(nil), f.Providers...)
	models := append([]string(nil), f.Models...)
	sort.Strings(providers)
	sort.Strings(models)

	var b strings.Builder
	b.WriteString("p=")
	b.WriteString(strings.Join(providers, ","))
	b.WriteString(";m=")
	b.WriteString(strings.Join(models, ","))
	if f.TopUsersLimit > 0 {
		b.WriteString(";u=")
		b.WriteString(strconv.Itoa(f.TopUsersLimit))
	}
	if f.TopConversationsLimit > 0 {
		b.WriteString(";c=")
		b.WriteString(strconv.Itoa(f.TopConversationsLimit))
	}
	return b.String()
}

// Query describes one analytics request. Period is a token from period.go;
// explicit bounds are honored only when Period == "custom".
type Query struct {
	TenantID string     `json:"tenant_id"`
	Period   string     `json:"period"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	Filters  Filters    `json:"filters"`
}
