package api

// AnalyseRequest is the body of POST /analyse.
type AnalyseRequest struct {
	Currency  string `json:"currency" validate:"required,max=16"`
	Frequency string `json:"frequency" default:"daily"`
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
	Wavelet   string `json:"wavelet"`
	Extended  bool   `json:"extended"`
}

// ResearchRequest is the body of POST /research.
type ResearchRequest struct {
	Currency  string `json:"currency" validate:"required,max=16"`
	Frequency string `json:"frequency" default:"daily"`
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
	Signal    string `json:"signal" default:"hurst" validate:"oneof=hurst macd"`
	Wavelet   string `json:"wavelet"`
	Cepstrum  bool   `json:"cepstrum"`
}
