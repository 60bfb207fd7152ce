package ports

import "glbindgen/internal/types"

type ResolutionReportPort interface {
	RenderResolutionReport(report types.ResolutionReport) map[string][]byte
	ReadResolutionLock(path string) ([]types.ResolutionEntry, error)
	ReadUnknownReport(path string) ([]types.UnknownReference, error)
}

type SymbolListPort interface {
	ReadSymbols(path string) ([]string, error)
}
