// Package eventcode holds the allowlist of disaster event codes accepted from
// CAS. An alert whose eventCode is not listed here is NACKed with note 220
// (profile violation) and never published.
//
// Codes are three letters: a two-letter hazard prefix plus a level suffix
// (W warning, A advisory, E emergency, C clear).
package eventcode

var validCodes = []string{
	// Meteorological
	"HRW", "HRA", "HRE", "HRC", // heavy rain
	"HSW", "HSA", "HSE", "HSC", // heavy snow
	"CWW", "CWA", "CWE", "CWC", // cold wave
	"HTW", "HTA", "HTE", "HTC", // heat wave
	"SWW", "SWA", "SWE", "SWC", // strong wind
	"WWW", "WWA", "WWE", "WWC", // wind wave
	"TYW", "TYA", "TYE", "TYC", // typhoon
	"TSW", "TSA", "TSE", "TSC", // tsunami
	"SSW", "SSA", "SSE", "SSC", // storm surge
	"YDW", "YDA", "YDE", "YDC", // yellow dust
	"DRW", "DRA", "DRE", "DRC", // drought
	"FGW", "FGA", "FGE", "FGC", // fog
	"DWW", "DWA", "DWE", "DWC", // dry weather
	"MFW", "MFA", "MFE", "MFC", // marine fog
	"HWW", "HWA", "HWE", "HWC", // high wave

	// Geological
	"EQW", "EQA", "EQE", "EQC", // earthquake
	"VWW", "VWA", "VWE", "VWC", // volcanic activity
	"LSW", "LSA", "LSE", "LSC", // landslide
	"GSW", "GSA", "GSE", "GSC", // ground subsidence
	"AVW", "AVA", "AVE", "AVC", // avalanche

	// Hydrological
	"FLW", "FLA", "FLE", "FLC", // flood
	"FFW", "FFA", "FFE", "FFC", // flash flood
	"DTW", "DTA", "DTE", "DTC", // dam/levee threat
	"RFW", "RFA", "RFE", "RFC", // river flooding
	"UFW", "UFA", "UFE", "UFC", // urban flooding
	"OFW", "OFA", "OFE", "OFC", // overflow

	// Fire and explosion
	"FRW", "FRA", "FRE", "FRC", // fire
	"WFW", "WFA", "WFE", "WFC", // wildfire
	"EXW", "EXA", "EXE", "EXC", // explosion
	"BFW", "BFA", "BFE", "BFC", // building fire
	"IFW", "IFA", "IFE", "IFC", // industrial fire

	// Infrastructure
	"ELW", "ELA", "ELE", "ELC", // electricity outage
	"GAW", "GAA", "GAE", "GAC", // gas supply/leak
	"WSW", "WSA", "WSE", "WSC", // water supply
	"CFW", "CFA", "CFE", "CFC", // communications failure
	"RDW", "RDA", "RDE", "RDC", // road closure
	"SBW", "SBA", "SBE", "SBC", // subway incident
	"TRW", "TRA", "TRE", "TRC", // train incident
	"MPW", "MPA", "MPE", "MPC", // maritime/port incident
	"AFW", "AFA", "AFE", "AFC", // aviation incident
	"BLW", "BLA", "BLE", "BLC", // blackout (wide-area)

	// Public health and environment
	"EPW", "EPA", "EPE", "EPC", // epidemic
	"LPW", "LPA", "LPE", "LPC", // livestock epidemic
	"FSW", "FSA", "FSE", "FSC", // food safety
	"CHW", "CHA", "CHE", "CHC", // chemical incident
	"RSW", "RSA", "RSE", "RSC", // radiological incident
	"MSW", "MSA", "MSE", "MSC", // medical service disruption
	"ASW", "ASA", "ASE", "ASC", // air quality (fine dust)
	"SMW", "SMA", "SME", "SMC", // smog

	// Civil protection and security
	"CDW", "CDA", "CDE", "CDC", // civil defense
	"NBW", "NBA", "NBE", "NBC", // CBRN threat
	"THW", "THA", "THE", "THC", // terror threat
	"MLW", "MLA", "MLE", "MLC", // military situation
	"ERW", "ERA", "ERE", "ERC", // evacuation order
	"SFW", "SFA", "SFE", "SFC", // structural failure
	"CLW", "CLA", "CLE", "CLC", // collapse
	"SDW", "SDA", "SDE", "SDC", // sudden danger (other)
	"TIW", "TIA", "TIE", "TIC", // tidal inundation
	"IRW", "IRA", "IRE", "IRC", // road icing
	"PWW", "PWA", "PWE", "PWC", // public warning test
	"TFW", "TFA", "TFE", "TFC", // traffic control
}

var valid = func() map[string]struct{} {
	m := make(map[string]struct{}, len(validCodes))
	for _, c := range validCodes {
		m[c] = struct{}{}
	}
	return m
}()

// IsValid reports whether code is on the allowlist. The match is exact and
// case-sensitive.
func IsValid(code string) bool {
	_, ok := valid[code]
	return ok
}

// Count returns the size of the allowlist.
func Count() int {
	return len(valid)
}
