package params

const (
	// ParamsKeyPauses stores the module pause configuration.
	ParamsKeyPauses = "system/pauses"
	// ParamsKeyPlatform stores the platform admin and fee account.
	ParamsKeyPlatform = "system/platform"
)
