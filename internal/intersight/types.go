package intersight

// Object model constants.
const (
	// ManagementModeLegacy marks servers administered by the legacy
	// domain manager; those are excluded from SEL collection.
	ManagementModeLegacy = "UCSM"

	// CollectSelInitiate is the CollectSel value that starts SEL
	// generation on a server's settings resource.
	CollectSelInitiate = "Collect"
)

// API resource paths.
const (
	PathPhysicalSummaries = "/api/v1/compute/PhysicalSummaries"
	PathServerSettings    = "/api/v1/compute/ServerSettings"
	PathEndPointLogs      = "/api/v1/equipment/EndPointLogs"
	PathLogDownloads      = "/api/v1/equipment/LogDownloads"
)

// PhysicalSummary is a compute/PhysicalSummaries result: one physical
// server with its management classification.
type PhysicalSummary struct {
	Moid           string `json:"Moid"`
	Name           string `json:"Name,omitempty"`
	Model          string `json:"Model,omitempty"`
	Serial         string `json:"Serial,omitempty"`
	ManagementMode string `json:"ManagementMode"`
}

// PhysicalSummaryList is the list envelope for PhysicalSummaries.
type PhysicalSummaryList struct {
	Results []PhysicalSummary `json:"Results"`
}

// ServerSetting is a compute/ServerSettings result. Updating CollectSel
// on it instructs the endpoint to generate its SEL.
type ServerSetting struct {
	Moid       string `json:"Moid,omitempty"`
	CollectSel string `json:"CollectSel,omitempty"`
}

// ServerSettingList is the list envelope for ServerSettings.
type ServerSettingList struct {
	Results []ServerSetting `json:"Results"`
}

// EndPointLog is an equipment/EndPointLogs result: a generated log file
// available for download.
type EndPointLog struct {
	Moid     string `json:"Moid"`
	FileName string `json:"FileName"`
}

// EndPointLogList is the list envelope for EndPointLogs.
type EndPointLogList struct {
	Results []EndPointLog `json:"Results"`
}
