package steps

func (fc *FeatureContext) iCallTheHealthzEndpoint() error {
	response, err := fc.apiDriver.GetHealthz()
	if err != nil {
		return err
	}
	fc.response = response
	return nil
}

func (fc *FeatureContext) theResponseShouldContainStatusInformation() error {
	var data map[string]any
	err := fc.decodeBody(fc.response.Body, &data)
	fc.require.NoError(err)

	fc.require.Contains(data, "status", "status should be present")
	fc.require.Contains(data, "version", "version should be present")

	status, ok := data["status"].(string)
	fc.require.True(ok, "status should be a string")
	fc.require.Equal("success", status, "status should be 'success'")

	fc.responseData = data
	return nil
}

func (fc *FeatureContext) theResponseShouldContainVersionInformation() error {
	version, ok := fc.responseData["version"].(string)
	fc.require.True(ok, "version should be a string")
	fc.require.NotEmpty(version, "version should not be empty")

	return nil
}
