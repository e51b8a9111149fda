package privatedns

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	mgmtprivatedns "github.com/Azure/azure-sdk-for-go/services/privatedns/mgmt/2018-09-01/privatedns"
	"github.com/Azure/go-autorest/autorest"
)

// PrivateZonesClient is a minimal interface for azure PrivateZonesClient
type PrivateZonesClient interface {
	PrivateZonesClientAddons
}

type privateZonesClient struct {
	mgmtprivatedns.PrivateZonesClient
}

var _ PrivateZonesClient = &privateZonesClient{}

// NewPrivateZonesClient creates a new PrivateZonesClient
func NewPrivateZonesClient(subscriptionID string, authorizer autorest.Authorizer) PrivateZonesClient {
	client := mgmtprivatedns.NewPrivateZonesClient(subscriptionID)
	client.Authorizer = authorizer

	return &privateZonesClient{
		PrivateZonesClient: client,
	}
}

// PrivateZonesClientAddons contains addons for PrivateZonesClient
type PrivateZonesClientAddons interface {
	CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, parameters mgmtprivatedns.PrivateZone) error
	DeleteAndWait(ctx context.Context, resourceGroupName string, privateZoneName string) error
}

func (c *privateZonesClient) CreateOrUpdateAndWait(ctx context.Context, resourceGroupName string, privateZoneName string, parameters mgmtprivatedns.PrivateZone) error {
	future, err := c.CreateOrUpdate(ctx, resourceGroupName, privateZoneName, parameters, "", "")
	if err != nil {
		return err
	}

	return future.WaitForCompletionRef(ctx, c.Client)
}

func (c *privateZonesClient) DeleteAndWait(ctx context.Context, resourceGroupName string, privateZoneName string) error {
	future, err := c.PrivateZonesClient.Delete(ctx, resourceGroupName, privateZoneName, "")
	if err != nil {
		return err
	}

	return future.WaitForCompletionRef(ctx, c.Client)
}
