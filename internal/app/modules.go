package app

import (
	"github.com/vk/scriptui/internal/registry"
	"github.com/vk/scriptui/modules/color"
	"github.com/vk/scriptui/modules/containers"
	"github.com/vk/scriptui/modules/geometry"
	"github.com/vk/scriptui/modules/response"
	"github.com/vk/scriptui/modules/text"
	"github.com/vk/scriptui/modules/widgets"
)

// coreModules is the definitive list of all binding modules that are
// compiled into the scriptui binary.
var coreModules = []registry.Module{
	&geometry.Module{},
	&color.Module{},
	&text.Module{},
	&response.Module{},
	&widgets.Module{},
	&containers.Module{},
}

// CoreModules returns a copy of the core module list, for callers that add
// their own modules next to it.
func CoreModules() []registry.Module {
	return append([]registry.Module(nil), coreModules...)
}
