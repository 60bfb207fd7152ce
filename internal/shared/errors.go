package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/types"
)

const (
	malformedRegistryPrefix      = "malformed registry"
	unknownSymbolReferencePrefix = "unknown symbol reference"
	ambiguousOwnershipPrefix     = "ambiguous ownership"
)

func MalformedRegistry(source string, detail string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %s: %s", malformedRegistryPrefix, source, detail))
}

func UnknownSymbolReference(source string, ref types.UnknownReference) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s in %s: group %s names undefined %s %s", unknownSymbolReferencePrefix, source, ref.Group, ref.Kind, ref.Name))
}

func AmbiguousOwnership(kind types.SymbolKind, name string, first string, second string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s: %s %s claimed by %s and %s", ambiguousOwnershipPrefix, kind, name, first, second))
}

func IsMalformedRegistry(err error) bool {
	return hasMessagePrefix(err, malformedRegistryPrefix)
}

func IsUnknownSymbolReference(err error) bool {
	return hasMessagePrefix(err, unknownSymbolReferencePrefix)
}

func IsAmbiguousOwnership(err error) bool {
	return hasMessagePrefix(err, ambiguousOwnershipPrefix)
}

func hasMessagePrefix(err error, prefix string) bool {
	if err == nil {
		return false
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.HasPrefix(builder.Msg, prefix) {
		return true
	}
	return strings.Contains(err.Error(), prefix)
}
