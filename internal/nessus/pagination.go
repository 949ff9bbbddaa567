// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// PaginationOptions are forwarded as query parameters on list calls.
// Zero values are omitted.
type PaginationOptions struct {
	Limit  int    `url:"limit,omitempty"`
	Offset int    `url:"offset,omitempty"`
	Sort   string `url:"sort,omitempty"`
	Order  string `url:"order,omitempty"`
}

// values validates p and encodes it. A nil receiver yields no parameters.
func (p *PaginationOptions) values() (url.Values, error) {
	if p == nil {
		return nil, nil
	}
	opts := *p
	if opts.Limit < 0 {
		return nil, invalidArgument("Limit must be a positive integer")
	}
	if opts.Offset < 0 {
		return nil, invalidArgument("Offset must not be negative")
	}
	opts.Sort = strings.TrimSpace(opts.Sort)
	opts.Order = strings.ToLower(strings.TrimSpace(opts.Order))
	if opts.Order != "" && opts.Order != "asc" && opts.Order != "desc" {
		return nil, invalidArgument("Order must be one of: asc, desc")
	}
	v, err := query.Values(opts)
	if err != nil {
		return nil, &Error{Kind: UnknownError, Message: fmt.Sprintf("encode pagination: %v", err), Err: err}
	}
	return v, nil
}
