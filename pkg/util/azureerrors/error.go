package azureerrors

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"net/http"

	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/azure"
)

const (
	CODE_INVALIDTEMPL = "InvalidTemplateDeployment"
	CODE_THROTTLED    = "TooManyRequests"
)

// IsThrottledOrServerError returns true when an ARM call failed with a
// status worth backing off on: throttling or a 5xx.
func IsThrottledOrServerError(err error) bool {
	if detailedErr, ok := err.(autorest.DetailedError); ok {
		if code, ok := detailedErr.StatusCode.(int); ok {
			return code == http.StatusTooManyRequests || code >= 500
		}
	}

	if serviceErr, ok := err.(*azure.ServiceError); ok {
		return serviceErr.Code == CODE_THROTTLED
	}

	return false
}

// IsInvalidTemplateError returns true when ARM rejected the deployment
// outright; retrying cannot help.
func IsInvalidTemplateError(err error) bool {
	if detailedErr, ok := err.(autorest.DetailedError); ok {
		if serviceErr, ok := detailedErr.Original.(*azure.ServiceError); ok {
			return serviceErr.Code == CODE_INVALIDTEMPL
		}
		if requestErr, ok := detailedErr.Original.(*azure.RequestError); ok &&
			requestErr.ServiceError != nil {
			return requestErr.ServiceError.Code == CODE_INVALIDTEMPL
		}
	}

	return false
}
