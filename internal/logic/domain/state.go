package domain

// State 工作流状态
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateUploadingImage
	StateUploadingMetadata
	StateCheckingAccount
	StateBuildingTransaction
	StateAwaitingWalletSignature
	StateSubmitted
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                    "Idle",
	StateValidating:              "Validating",
	StateUploadingImage:          "UploadingImage",
	StateUploadingMetadata:       "UploadingMetadata",
	StateCheckingAccount:         "CheckingAccount",
	StateBuildingTransaction:     "BuildingTransaction",
	StateAwaitingWalletSignature: "AwaitingWalletSignature",
	StateSubmitted:               "Submitted",
	StateFailed:                  "Failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Terminal 是否为终态
func (s State) Terminal() bool {
	return s == StateSubmitted || s == StateFailed
}
