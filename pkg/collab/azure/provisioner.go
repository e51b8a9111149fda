package azure

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"strings"

	mgmtnetwork "github.com/Azure/azure-sdk-for-go/services/network/mgmt/2020-08-01/network"
	mgmtfeatures "github.com/Azure/azure-sdk-for-go/services/resources/mgmt/2019-07-01/features"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/to"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/features"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/network"
	"github.com/Azure/dnsmigrator/pkg/util/azureerrors"
)

// provisioner realizes resource specs as ARM deployments.  ARM's incremental
// deployment mode gives the declarative, convergent semantics the
// orchestrator assumes: deploying the same template twice is safe.
type provisioner struct {
	log *logrus.Entry

	subscriptionID string
	resourceGroup  string

	deployments features.DeploymentsClient
	peerings    network.VirtualNetworkPeeringsClient
}

// NewProvisioner returns a collab.Provisioner backed by ARM template
// deployments.  resourceGroup is the default container for specs which do
// not name one.
func NewProvisioner(log *logrus.Entry, subscriptionID, resourceGroup string, authorizer autorest.Authorizer) collab.Provisioner {
	return &provisioner{
		log: log,

		subscriptionID: subscriptionID,
		resourceGroup:  resourceGroup,

		deployments: features.NewDeploymentsClient(subscriptionID, authorizer),
		peerings:    network.NewVirtualNetworkPeeringsClient(subscriptionID, authorizer),
	}
}

func (p *provisioner) container(spec collab.ResourceSpec) string {
	if spec.Container != "" {
		return spec.Container
	}
	return p.resourceGroup
}

func (p *provisioner) CreateOrUpdate(ctx context.Context, spec collab.ResourceSpec) (collab.ResourceHandle, error) {
	// Peerings are symmetric resources hanging off a vnet, not standalone
	// template resources; they go through the peerings client directly.
	if spec.Type == "peering" {
		return p.createPeering(ctx, spec)
	}

	resource, err := p.armResource(spec)
	if err != nil {
		return "", err
	}

	deploymentName := "dnsmigrator-" + spec.Name
	err = p.deployments.CreateOrUpdateAndWait(ctx, p.container(spec), deploymentName, mgmtfeatures.Deployment{
		Properties: &mgmtfeatures.DeploymentProperties{
			Template: map[string]interface{}{
				"$schema":        "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
				"contentVersion": "1.0.0.0",
				"resources":      []interface{}{resource},
			},
			Mode: mgmtfeatures.Incremental,
		},
	})
	if err != nil {
		if azureerrors.IsThrottledOrServerError(err) {
			return "", api.TransientError(err)
		}
		return "", err
	}

	return collab.ResourceHandle(p.container(spec) + "/" + deploymentName), nil
}

func (p *provisioner) Delete(ctx context.Context, handle collab.ResourceHandle) error {
	container, deploymentName, ok := strings.Cut(string(handle), "/")
	if !ok {
		return fmt.Errorf("malformed resource handle %q", handle)
	}

	err := p.deployments.DeleteAndWait(ctx, container, deploymentName)
	if err != nil && azureerrors.IsThrottledOrServerError(err) {
		return api.TransientError(err)
	}
	return err
}

func (p *provisioner) createPeering(ctx context.Context, spec collab.ResourceSpec) (collab.ResourceHandle, error) {
	segmentA, _ := spec.Properties["segmentA"].(string)
	segmentB, _ := spec.Properties["segmentB"].(string)
	if segmentA == "" || segmentB == "" {
		return "", fmt.Errorf("peering spec %q must name segmentA and segmentB", spec.Name)
	}

	container := p.container(spec)

	// Peerings must exist on both sides before traffic flows.
	for _, pair := range [][2]string{{segmentA, segmentB}, {segmentB, segmentA}} {
		err := p.peerings.CreateOrUpdateAndWait(ctx, container, pair[0], peeringName(pair[0], pair[1]), mgmtnetwork.VirtualNetworkPeering{
			VirtualNetworkPeeringPropertiesFormat: &mgmtnetwork.VirtualNetworkPeeringPropertiesFormat{
				AllowVirtualNetworkAccess: to.BoolPtr(true),
				AllowForwardedTraffic:     to.BoolPtr(true),
				RemoteVirtualNetwork: &mgmtnetwork.SubResource{
					ID: to.StringPtr(p.vnetID(container, pair[1])),
				},
			},
		})
		if err != nil {
			if azureerrors.IsThrottledOrServerError(err) {
				return "", api.TransientError(err)
			}
			return "", err
		}
	}

	return collab.ResourceHandle(container + "/" + spec.Name), nil
}

func (p *provisioner) vnetID(resourceGroup, vnetName string) string {
	return "/subscriptions/" + p.subscriptionID + "/resourceGroups/" + resourceGroup + "/providers/Microsoft.Network/virtualNetworks/" + vnetName
}

func peeringName(local, remote string) string {
	return local + "-to-" + remote
}

func (p *provisioner) armResource(spec collab.ResourceSpec) (map[string]interface{}, error) {
	switch spec.Type {
	case "segment":
		addressRange, _ := spec.Properties["addressRange"].(string)
		return map[string]interface{}{
			"type":       "Microsoft.Network/virtualNetworks",
			"apiVersion": "2020-08-01",
			"name":       spec.Name,
			"location":   "[resourceGroup().location]",
			"properties": map[string]interface{}{
				"addressSpace": map[string]interface{}{
					"addressPrefixes": []interface{}{addressRange},
				},
			},
		}, nil

	case "dnsserver":
		return map[string]interface{}{
			"type":       "Microsoft.Network/networkInterfaces",
			"apiVersion": "2020-08-01",
			"name":       spec.Name + "-nic",
			"location":   "[resourceGroup().location]",
			"properties": map[string]interface{}{
				"ipConfigurations": []interface{}{
					map[string]interface{}{
						"name": "static",
						"properties": map[string]interface{}{
							"privateIPAllocationMethod": "Static",
							"privateIPAddress":          spec.Properties["address"],
							"subnet": map[string]interface{}{
								"id": "[resourceId('Microsoft.Network/virtualNetworks/subnets', '" + fmt.Sprint(spec.Properties["segment"]) + "', 'dns')]",
							},
						},
					},
				},
			},
		}, nil

	case "privateendpoint":
		return map[string]interface{}{
			"type":       "Microsoft.Network/privateEndpoints",
			"apiVersion": "2020-08-01",
			"name":       spec.Name,
			"location":   "[resourceGroup().location]",
			"properties": map[string]interface{}{
				"subnet": map[string]interface{}{
					"id": "[resourceId('Microsoft.Network/virtualNetworks/subnets', '" + fmt.Sprint(spec.Properties["segment"]) + "', 'endpoints')]",
				},
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown resource spec type %q", spec.Type)
	}
}
