package network

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	mgmtnetwork "github.com/Azure/azure-sdk-for-go/services/network/mgmt/2020-08-01/network"
	"github.com/Azure/go-autorest/autorest"
)

// VirtualNetworksClient is a minimal interface for azure VirtualNetworksClient
type VirtualNetworksClient interface {
	Get(ctx context.Context, resourceGroupName string, virtualNetworkName string, expand string) (result mgmtnetwork.VirtualNetwork, err error)
	VirtualNetworksClientAddons
}

type virtualNetworksClient struct {
	mgmtnetwork.VirtualNetworksClient
}

var _ VirtualNetworksClient = &virtualNetworksClient{}

// NewVirtualNetworksClient creates a new VirtualNetworksClient
func NewVirtualNetworksClient(subscriptionID string, authorizer autorest.Authorizer) VirtualNetworksClient {
	client := mgmtnetwork.NewVirtualNetworksClient(subscriptionID)
	client.Authorizer = authorizer

	return &virtualNetworksClient{
		VirtualNetworksClient: client,
	}
}
