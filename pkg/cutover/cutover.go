package cutover

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/topology"
)

// Controller pushes computed forwarding and authority configuration to the
// DNS admin collaborator.  Pushes to servers in independent resource
// containers run concurrently; pushes sharing a container are serialized,
// since the network provider holds a container-level lock.
type Controller struct {
	log      *logrus.Entry
	dnsadmin collab.DnsAdmin

	mu         sync.Mutex
	containers map[string]*sync.Mutex
}

// defaultBackoff caps retries of transient collaborator errors at 5
// attempts.
var defaultBackoff = wait.Backoff{
	Steps:    5,
	Duration: 2 * time.Second,
	Factor:   2,
	Jitter:   0.1,
}

func NewController(log *logrus.Entry, dnsadmin collab.DnsAdmin) *Controller {
	return &Controller{
		log:      log,
		dnsadmin: dnsadmin,

		containers: map[string]*sync.Mutex{},
	}
}

func (c *Controller) containerLock(container string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.containers[container]
	if !ok {
		lock = &sync.Mutex{}
		c.containers[container] = lock
	}
	return lock
}

// Apply pushes rs to every DNS server, pushes zone contents (including
// synthetic endpoint records) to each zone's authority, and re-points each
// segment's default resolver.  Every call is a fresh push at the wire level;
// idempotence lives in the phase layer, which skips Apply entirely for an
// already-committed phase.
//
// Cancellation is honoured up to the first push.  Once pushing has begun the
// operation runs to completion or explicit failure, so DNS servers are never
// left half-applied and unvalidated.
func (c *Controller) Apply(ctx context.Context, model *topology.Model, rs *api.RuleSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Point of no return: detach from the caller's cancellation.  A failing
	// sibling push does not cancel the others either; every started push
	// runs to completion or explicit failure.
	pushCtx := context.WithoutCancel(ctx)

	var g errgroup.Group

	for _, server := range model.Servers() {
		segment, ok := model.Segment(server.SegmentID)
		if !ok {
			return &api.TopologyInvariantViolationError{
				Target:  "dns server " + server.ID,
				Message: "server's segment is not in the model",
			}
		}

		g.Go(func() error {
			lock := c.containerLock(segment.ResourceContainer)
			lock.Lock()
			defer lock.Unlock()

			return c.applyServer(pushCtx, model, server, rs.ServerRules[server.ID])
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	return c.applyResolvers(pushCtx, model)
}

func (c *Controller) applyServer(ctx context.Context, model *topology.Model, server api.DNSServer, rules []api.ForwardingRule) error {
	err := c.push(ctx, server.ID, func(ctx context.Context) error {
		return c.dnsadmin.PushForwardingRules(ctx, server, rules)
	})
	if err != nil {
		return err
	}

	for _, zone := range model.Zones() {
		if zone.AuthorityID != server.ID {
			continue
		}

		err = c.push(ctx, server.ID, func(ctx context.Context) error {
			return c.dnsadmin.PushZoneFile(ctx, server, zone.Name, model.ZoneRecords(zone.Name))
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// applyResolvers re-points each segment's default resolver at a DNS server
// hosted in the segment, preferring one which is authoritative for at least
// one zone.  Segments without a DNS server keep their current resolver.
func (c *Controller) applyResolvers(ctx context.Context, model *topology.Model) error {
	for _, segment := range model.Segments() {
		server, ok := ResolverFor(model, segment.ID)
		if !ok {
			continue
		}

		err := c.push(ctx, server.ID, func(ctx context.Context) error {
			return c.dnsadmin.SetDefaultResolver(ctx, segment, server)
		})
		if err != nil {
			return err
		}

		err = model.SetResolverAddress(segment.ID, server.Address)
		if err != nil {
			return err
		}
	}

	return nil
}

// ResolverFor picks the default resolver for a segment: a DNS server hosted
// in the segment, preferring one authoritative for at least one zone.
func ResolverFor(model *topology.Model, segmentID string) (api.DNSServer, bool) {
	servers := model.ServersIn(segmentID)
	if len(servers) == 0 {
		return api.DNSServer{}, false
	}

	for _, server := range servers {
		for _, zone := range model.Zones() {
			if zone.AuthorityID == server.ID {
				return server, true
			}
		}
	}

	return servers[0], true
}

// push runs one collaborator call with exponential backoff on transient
// errors.  A non-transient error (e.g. ApplyRejected) aborts immediately and
// is returned untouched; the caller decides whether to retry the whole
// phase.
func (c *Controller) push(ctx context.Context, serverID string, f func(context.Context) error) error {
	var lastErr error

	err := wait.ExponentialBackoff(defaultBackoff, func() (bool, error) {
		lastErr = f(ctx)
		if lastErr == nil {
			return true, nil
		}
		if !api.IsTransient(lastErr) {
			return false, lastErr
		}

		c.log.Warnf("transient error pushing to %s, backing off: %v", serverID, lastErr)
		return false, nil
	})

	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}
