package atelierctl

// Indirection layer to allow stubbing in tests

var (
	fnCheckTools   = checkTools
	fnEnsureDirs   = ensureDirs
	fnInstallDeps  = installDeps
	fnFetchModel   = fetchModel
	fnProvisionAll = provisionAll
	fnUpDaemon     = upDaemon
)
