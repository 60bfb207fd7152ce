package app

import (
	"glbindgen/internal/adapters"
	"glbindgen/internal/ports"
	"glbindgen/internal/types"
)

type Service struct {
	Targets        ports.TargetFilePort
	XMLRegistry    ports.RegistryPort
	HeaderRegistry ports.RegistryPort
	Fetcher        ports.RegistryFetchPort
	Emitter        ports.EmitterPort
	Formatter      ports.FormatterPort
	Reports        ports.ResolutionReportPort
	Symbols        ports.SymbolListPort
}

func NewService() Service {
	return Service{
		Targets:        adapters.NewTargetFileAdapter(),
		XMLRegistry:    adapters.NewRegistryXMLAdapter(),
		HeaderRegistry: adapters.NewHeaderRegistryAdapter(),
		Fetcher:        adapters.NewRegistryFetchAdapter(0, 0, 0),
		Emitter:        adapters.NewCPPEmitterAdapter(),
		Formatter:      adapters.NewClangFormatAdapter(""),
		Reports:        adapters.NewResolutionReportAdapter(),
		Symbols:        adapters.NewSymbolListAdapter(),
	}
}

func (s Service) registryPort(format types.RegistryFormat) ports.RegistryPort {
	if format == types.RegistryFormatHeader {
		return s.HeaderRegistry
	}
	return s.XMLRegistry
}

func (s Service) publisher() ports.PublisherPort {
	return adapters.NewFilePublisherAdapter(s.Formatter)
}
