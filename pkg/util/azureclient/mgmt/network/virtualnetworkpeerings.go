package network

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	mgmtnetwork "github.com/Azure/azure-sdk-for-go/services/network/mgmt/2020-08-01/network"
	"github.com/Azure/go-autorest/autorest"
)

// VirtualNetworkPeeringsClient is a minimal interface for azure VirtualNetworkPeeringsClient
type VirtualNetworkPeeringsClient interface {
	Get(ctx context.Context, resourceGroupName string, virtualNetworkName string, virtualNetworkPeeringName string) (result mgmtnetwork.VirtualNetworkPeering, err error)
	VirtualNetworkPeeringsAddons
}

type virtualNetworkPeeringsClient struct {
	mgmtnetwork.VirtualNetworkPeeringsClient
}

var _ VirtualNetworkPeeringsClient = &virtualNetworkPeeringsClient{}

// NewVirtualNetworkPeeringsClient creates a new VirtualNetworkPeeringsClient
func NewVirtualNetworkPeeringsClient(subscriptionID string, authorizer autorest.Authorizer) VirtualNetworkPeeringsClient {
	client := mgmtnetwork.NewVirtualNetworkPeeringsClient(subscriptionID)
	client.Authorizer = authorizer

	return &virtualNetworkPeeringsClient{
		VirtualNetworkPeeringsClient: client,
	}
}
