package dnsprobe

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"net"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
)

// resolver issues plain DNS queries against a segment's resolver address and
// reports the answer address plus whether the response carried the AA bit.
type resolver struct {
	log    *logrus.Entry
	client *dns.Client
}

// NewResolver returns a collab.Resolver backed by direct DNS queries.
func NewResolver(log *logrus.Entry) collab.Resolver {
	return &resolver{
		log: log,
		client: &dns.Client{
			Net: "udp",
		},
	}
}

func (r *resolver) Resolve(ctx context.Context, segment api.Segment, name string) (string, bool, error) {
	if segment.ResolverAddress == "" {
		return "", false, errors.Errorf("segment %s has no resolver address", segment.ID)
	}

	m := &dns.Msg{}
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, m, net.JoinHostPort(segment.ResolverAddress, "53"))
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", false, api.TransientError(err)
		}
		return "", false, err
	}

	if in.Truncated {
		// Retry large answers over TCP rather than trusting a partial
		// response.
		tcp := &dns.Client{Net: "tcp"}
		in, _, err = tcp.ExchangeContext(ctx, m, net.JoinHostPort(segment.ResolverAddress, "53"))
		if err != nil {
			return "", false, err
		}
	}

	if in.Rcode != dns.RcodeSuccess {
		return "", in.Authoritative, errors.Errorf("query %s via %s: %s", name, segment.ResolverAddress, dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), in.Authoritative, nil
		}
	}

	return "", in.Authoritative, errors.Errorf("query %s via %s: no A records in answer", name, segment.ResolverAddress)
}
