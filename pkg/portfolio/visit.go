package portfolio

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Visit is an analytics record. Extra fields are flattened into the top-level JSON object and
// override the named fields on collision.
type Visit struct {
	Page      string
	UserAgent string
	Referrer  string
	Extra     map[string]interface{}
}

type visitBase struct {
	Page      string `json:"page"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer"`
}

// MarshalJSON renders {page, user_agent, referrer, ...extra}.
func (v Visit) MarshalJSON() (out []byte, err error) {
	out, err = json.Marshal(visitBase{Page: v.Page, UserAgent: v.UserAgent, Referrer: v.Referrer})
	if err != nil {
		return out, err
	}

	keys := make([]string, 0, len(v.Extra))
	for key := range v.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		out, err = sjson.SetBytes(out, objectKeyPath(key), v.Extra[key])
		if err != nil {
			err = errors.Wrapf(err, "failed to set visit field %s", key)
			return out, err
		}

		// sjson skips paths it cannot resolve without reporting an error.
		if !gjson.GetBytes(out, pathEscaper.Replace(key)).Exists() {
			err = errors.Errorf("failed to set visit field %q", key)
			return out, err
		}
	}

	return out, err
}

//nolint:gochecknoglobals // immutable replacer
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`!`, `\!`,
)

// objectKeyPath escapes key so sjson treats it as a single literal object key.
func objectKeyPath(key string) (path string) {
	path = ":" + pathEscaper.Replace(key)
	return path
}
