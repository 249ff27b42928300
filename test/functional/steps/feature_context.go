package steps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"sonometre-server/test/functional/driver"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/require"
)

type FeatureContext struct {
	apiDriver    *driver.APIDriver
	response     *http.Response
	responseData map[string]any
	require      *require.Assertions
	t            godog.TestingT
}

func NewFeatureContext() *FeatureContext {
	return &FeatureContext{
		apiDriver: driver.NewAPIDriver("http://localhost:3000"),
	}
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	// Generic steps
	ctx.Then(`^the response status code should be (\d+)$`, fc.theResponseStatusCodeShouldBe)
	ctx.Then(`^the response status should be "([^"]*)"$`, fc.theResponseStatusShouldBe)

	// Healthz steps
	ctx.When(`^I call the healthz endpoint$`, fc.iCallTheHealthzEndpoint)
	ctx.Then(`^the response should contain status information$`, fc.theResponseShouldContainStatusInformation)
	ctx.Then(`^the response should contain version information$`, fc.theResponseShouldContainVersionInformation)

	// Reading steps
	ctx.When(`^I record a reading for sonde (\d+) with "([^"]*)" at ([\d.]+)$`, fc.iRecordAReadingForSonde)
	ctx.Given(`^a reading exists for sonde (\d+) with "([^"]*)" at ([\d.]+)$`, fc.aReadingExistsForSonde)
	ctx.When(`^I request a notification broadcast$`, fc.iRequestANotificationBroadcast)

	// Historic data steps
	ctx.When(`^I query today's historic data for sonde (\d+) measuring "([^"]*)"$`, fc.iQueryTodaysHistoricData)
	ctx.Then(`^the response should contain a series for sonde (\d+)$`, fc.theResponseShouldContainASeriesForSonde)
	ctx.Then(`^the series for sonde (\d+) should include the value ([\d.]+)$`, fc.theSeriesForSondeShouldIncludeTheValue)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.t = godog.T(ctx)
		fc.require = require.New(fc.t)

		fc.reset()
		return ctx, nil
	})
}

func (fc *FeatureContext) reset() {
	fc.response = nil
	fc.responseData = nil
}

func (fc *FeatureContext) decodeBody(body io.ReadCloser, target any) error {
	return json.NewDecoder(body).Decode(target)
}

func (fc *FeatureContext) theResponseStatusCodeShouldBe(expected int) error {
	fc.require.NotNil(fc.response, "no response recorded")
	fc.require.Equal(expected, fc.response.StatusCode)
	return nil
}

func (fc *FeatureContext) theResponseStatusShouldBe(expected string) error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)

	status, ok := data["status"].(string)
	fc.require.True(ok, "status should be a string")
	fc.require.Equal(expected, status)

	fc.responseData = data
	return nil
}
