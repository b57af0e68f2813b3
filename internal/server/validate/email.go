package validate

import (
	"strings"

	"github.com/dmitrijs2005/dsalog/internal/common"
)

var (
	gmailDomains   = map[string]bool{"gmail.com": true, "googlemail.com": true}
	plusSubDomains = map[string]bool{
		"outlook.com": true, "hotmail.com": true, "live.com": true,
		"icloud.com": true, "me.com": true,
	}
	yahooDomains = map[string]bool{"yahoo.com": true, "ymail.com": true, "rocketmail.com": true}
)

// NormalizeEmail returns the canonical form of email used as the identity
// key: trimmed and lowercased, with provider-specific aliases folded
// together.
//
//   - gmail.com / googlemail.com: dots and "+tag" dropped, domain gmail.com
//   - outlook.com, hotmail.com, live.com, icloud.com, me.com: "+tag" dropped
//   - yahoo.com, ymail.com, rocketmail.com: "-tag" dropped
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := v.Var(email, "required,email"); err != nil {
		return "", common.NewValidationError("email", MsgInvalidEmail)
	}

	at := strings.LastIndexByte(email, '@')
	local, domain := email[:at], email[at+1:]

	switch {
	case gmailDomains[domain]:
		local, _, _ = strings.Cut(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case plusSubDomains[domain]:
		local, _, _ = strings.Cut(local, "+")
	case yahooDomains[domain]:
		local, _, _ = strings.Cut(local, "-")
	}

	if local == "" {
		return "", common.NewValidationError("email", MsgInvalidEmail)
	}
	return local + "@" + domain, nil
}
