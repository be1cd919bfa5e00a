// Package rrset derives DNS RRSets from record rows. An RRSet is the
// unit DNS semantics operate on: all records sharing one owner name
// and type. Nothing here touches the database; grouping is a pure
// transformation over rows already fetched.
package rrset

import (
	"strings"

	"pdnsadmin/internal/db"
)

type RecordData struct {
	Content  string `json:"content"`
	Priority int    `json:"priority"`
	Disabled bool   `json:"disabled"`
}

type RRSet struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	TTL     int          `json:"ttl"`
	Records []RecordData `json:"records"`
}

// Group collects records into RRSets keyed by (name, type). Sets come
// out in first-occurrence order, members in row order. Rows of one set
// should share a TTL; when they do not, the lowest wins so a stray
// high TTL can never pin a stale answer.
func Group(records []db.Record) []RRSet {
	var order []string
	byKey := make(map[string]*RRSet)

	for _, rec := range records {
		key := rec.Name + "|" + rec.Type
		set, ok := byKey[key]
		if !ok {
			set = &RRSet{Name: rec.Name, Type: rec.Type, TTL: rec.TTL}
			byKey[key] = set
			order = append(order, key)
		}
		if rec.TTL < set.TTL {
			set.TTL = rec.TTL
		}
		set.Records = append(set.Records, RecordData{
			Content:  StripTXTQuotes(rec.Content, rec.Type),
			Priority: rec.Prio,
			Disabled: rec.Disabled,
		})
	}

	out := make([]RRSet, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// StripTXTQuotes unwraps single-string TXT content for API responses.
// Multi-string TXT values (joined with `" "`) keep their quoting since
// the segment boundaries would otherwise be lost.
func StripTXTQuotes(content, rtype string) string {
	if rtype != "TXT" {
		return content
	}
	content = strings.TrimSpace(content)
	if strings.Contains(content, `" "`) {
		return content
	}
	if len(content) > 1 && strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`) {
		return content[1 : len(content)-1]
	}
	return content
}

// QuoteTXT wraps TXT content in quotes unless it already is. Stored
// TXT content is always quoted so PowerDNS serves it verbatim.
func QuoteTXT(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`) && len(content) > 1 {
		return content
	}
	return `"` + content + `"`
}
