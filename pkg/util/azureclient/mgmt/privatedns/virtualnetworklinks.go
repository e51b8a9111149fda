package privatedns

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	mgmtprivatedns "github.com/Azure/azure-sdk-for-go/services/privatedns/mgmt/2018-09-01/privatedns"
	"github.com/Azure/go-autorest/autorest"
)

// VirtualNetworkLinksClient is a minimal interface for azure VirtualNetworkLinksClient
type VirtualNetworkLinksClient interface {
	VirtualNetworkLinksClientAddons
}

type virtualNetworkLinksClient struct {
	mgmtprivatedns.VirtualNetworkLinksClient
}

var _ VirtualNetworkLinksClient = &virtualNetworkLinksClient{}

// NewVirtualNetworkLinksClient creates a new VirtualNetworkLinksClient
func NewVirtualNetworkLinksClient(subscriptionID string, authorizer autorest.Authorizer) VirtualNetworkLinksClient {
	client := mgmtprivatedns.NewVirtualNetworkLinksClient(subscriptionID)
	client.Authorizer = authorizer

	return &virtualNetworkLinksClient{
		VirtualNetworkLinksClient: client,
	}
}

// VirtualNetworkLinksClientAddons contains addons for VirtualNetworkLinksClient
type VirtualNetworkLinksClientAddons interface {
	CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, virtualNetworkLinkName string, parameters mgmtprivatedns.VirtualNetworkLink) error
	DeleteAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, virtualNetworkLinkName string) error
}

func (c *virtualNetworkLinksClient) CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, virtualNetworkLinkName string, parameters mgmtprivatedns.VirtualNetworkLink) error {
	future, err := c.CreateOrUpdate(ctx, resourceGroupName, privateZoneName, virtualNetworkLinkName, parameters, "", "")
	if err != nil {
		return err
	}

	return future.WaitForCompletionRef(ctx, c.Client)
}

func (c *virtualNetworkLinksClient) DeleteAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, virtualNetworkLinkName string) error {
	future, err := c.VirtualNetworkLinksClient.Delete(ctx, resourceGroupName, privateZoneName, virtualNetworkLinkName, "")
	if err != nil {
		return err
	}

	return future.WaitForCompletionRef(ctx, c.Client)
}
