package azure

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	mgmtnetwork "github.com/Azure/azure-sdk-for-go/services/network/mgmt/2020-08-01/network"
	"github.com/Azure/go-autorest/autorest"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/network"
	"github.com/Azure/dnsmigrator/pkg/util/azureerrors"
)

// linkProbe checks directional reachability by reading the peering state on
// the probing side: traffic flows from A to B only once A's peering to B
// reports Connected.
type linkProbe struct {
	log *logrus.Entry

	resourceGroup string
	peerings      network.VirtualNetworkPeeringsClient
}

// NewLinkProbe returns a collab.LinkProbe backed by the peering state of the
// network provider.
func NewLinkProbe(log *logrus.Entry, subscriptionID, resourceGroup string, authorizer autorest.Authorizer) collab.LinkProbe {
	return &linkProbe{
		log: log,

		resourceGroup: resourceGroup,
		peerings:      network.NewVirtualNetworkPeeringsClient(subscriptionID, authorizer),
	}
}

func (p *linkProbe) Probe(ctx context.Context, segmentA, segmentB string) (bool, error) {
	peering, err := p.peerings.Get(ctx, p.resourceGroup, segmentA, peeringName(segmentA, segmentB))
	if err != nil {
		if azureerrors.IsThrottledOrServerError(err) {
			return false, api.TransientError(err)
		}
		return false, err
	}

	if peering.VirtualNetworkPeeringPropertiesFormat == nil {
		return false, nil
	}

	connected := peering.PeeringState == mgmtnetwork.VirtualNetworkPeeringStateConnected
	p.log.Debugf("peering %s: state %s", peeringName(segmentA, segmentB), peering.PeeringState)
	return connected, nil
}
