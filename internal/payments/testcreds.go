package payments

// Sandbox credentials. Mobile wallets share one table; each card method has its own.
var (
	mobileTestCredentials = map[TestMode]string{
		TestModeSuccess:           "0771111111",
		TestModeDelayedSuccess:    "0772222222",
		TestModeUserCancelled:     "0773333333",
		TestModeInsufficientFunds: "0774444444",
	}

	testCredentials = map[PaymentMethod]map[TestMode]string{
		MethodEcoCash:  mobileTestCredentials,
		MethodOneMoney: mobileTestCredentials,
		MethodInnBucks: mobileTestCredentials,
		MethodOmari:    mobileTestCredentials,
		MethodVMC: {
			TestModeSuccess:           "{11111111-1111-1111-1111-111111111111}",
			TestModeDelayedSuccess:    "{22222222-2222-2222-2222-222222222222}",
			TestModeUserCancelled:     "{33333333-3333-3333-3333-333333333333}",
			TestModeInsufficientFunds: "{44444444-4444-4444-4444-444444444444}",
		},
		MethodZimSwitch: {
			TestModeSuccess:           "11111111111111111111111111111111",
			TestModeDelayedSuccess:    "22222222222222222222222222222222",
			TestModeUserCancelled:     "33333333333333333333333333333333",
			TestModeInsufficientFunds: "44444444444444444444444444444444",
		},
	}
)

// ResolveTestCredential returns the magic value that forces mode for method,
// or original when mode is TestModeNone or has no entry.
func ResolveTestCredential(method PaymentMethod, mode TestMode, original string) string {
	if mode == TestModeNone {
		return original
	}
	if cred, ok := testCredentials[method][mode]; ok {
		return cred
	}
	return original
}
