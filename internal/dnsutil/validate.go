package dnsutil

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// ValidationResult carries the pass/fail outcome plus the normalized
// values a caller should persist instead of its raw input.
type ValidationResult struct {
	Valid   bool
	Errors  []string
	Content string
	TTL     int
	Prio    int
}

func (r ValidationResult) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// ValidateRecord checks a record's fields before persistence and
// returns normalized content/ttl/priority. A zero TTL picks up
// defaultTTL; anything below 1 after that is rejected.
func ValidateRecord(rtype, content, name string, prio, ttl, defaultTTL int) ValidationResult {
	rtype = strings.ToUpper(strings.TrimSpace(rtype))
	content = strings.TrimSpace(content)

	if _, known := dns.StringToType[rtype]; !known {
		return invalid("Unknown record type: %s", rtype)
	}
	if name == "" {
		return invalid("Record name must not be empty")
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return invalid("Invalid record name: %s", name)
	}

	if ttl == 0 {
		ttl = defaultTTL
	}
	if ttl < 1 {
		return invalid("TTL must be greater than 0")
	}
	if prio < 0 || prio > 65535 {
		return invalid("Priority must be between 0 and 65535")
	}

	if content == "" {
		return invalid("Record content must not be empty")
	}

	switch rtype {
	case "A":
		addr, err := netip.ParseAddr(content)
		if err != nil || !addr.Is4() {
			return invalid("Invalid IPv4 address: %s", content)
		}
		content = addr.String()
	case "AAAA":
		addr, err := netip.ParseAddr(content)
		if err != nil || !addr.Is6() || addr.Is4In6() {
			return invalid("Invalid IPv6 address: %s", content)
		}
		content = addr.String()
	case "CNAME", "NS", "MX", "PTR":
		if _, ok := dns.IsDomainName(content); !ok {
			return invalid("Invalid hostname in %s content: %s", rtype, content)
		}
		content = strings.ToLower(strings.TrimSuffix(content, "."))
	case "SRV":
		// weight port target
		fields := strings.Fields(content)
		if len(fields) != 3 {
			return invalid("SRV content must be 'weight port target'")
		}
		if _, ok := dns.IsDomainName(fields[2]); !ok {
			return invalid("Invalid SRV target: %s", fields[2])
		}
	case "SOA":
		if len(strings.Fields(content)) != 7 {
			return invalid("SOA content must have 7 fields")
		}
	}

	return ValidationResult{Valid: true, Content: content, TTL: ttl, Prio: prio}
}

// FormatContent applies per-type cosmetic normalization before
// validation: hostname targets are lower-cased and lose trailing dots,
// everything is trimmed.
func FormatContent(rtype, content string) string {
	content = strings.TrimSpace(content)
	switch strings.ToUpper(rtype) {
	case "CNAME", "NS", "MX", "PTR":
		return strings.ToLower(strings.TrimSuffix(content, "."))
	default:
		return content
	}
}
