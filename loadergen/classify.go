package loadergen

import (
	"github.com/teranos/kodiakgen/errors"
)

// Tier is the object scope a function pointer is resolved against.
type Tier int

const (
	TierRoot Tier = iota
	TierInstance
	TierDevice
)

func (t Tier) String() string {
	switch t {
	case TierRoot:
		return "root"
	case TierInstance:
		return "instance"
	case TierDevice:
		return "device"
	}
	return "unknown"
}

// MarshalText renders the tier by name in YAML and JSON output.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Options names the entry points and handle types the classifier keys on.
type Options struct {
	// BootstrapCommand is declared but never loaded; loading it is the
	// bootstrap step itself.
	BootstrapCommand string
	// DeviceProcCommand fetches device-level pointers through an instance.
	DeviceProcCommand string
	InstanceHandle    string
	DeviceHandle      string
}

// DefaultOptions returns the Vulkan entry points and handles.
func DefaultOptions() Options {
	return Options{
		BootstrapCommand:  "vkGetInstanceProcAddr",
		DeviceProcCommand: "vkGetDeviceProcAddr",
		InstanceHandle:    "VkInstance",
		DeviceHandle:      "VkDevice",
	}
}

// Classification is the classifier's verdict for one command.
type Classification struct {
	Command string
	// Tier follows the command's declared first parameter type.
	Tier Tier
	// DeclarationOnly commands get pointer declarations but no load line.
	DeclarationOnly bool
	// InstanceScoped is set when an instance-kind extension requires the
	// command; device-tier commands are then loaded at instance scope.
	InstanceScoped bool
}

// LoadBlock returns the block the command's load line goes to, or false for
// declaration-only commands.
func (c Classification) LoadBlock() (BlockName, bool) {
	if c.DeclarationOnly {
		return "", false
	}
	switch c.Tier {
	case TierDevice:
		if c.InstanceScoped {
			return BlockLoadInstance, true
		}
		return BlockLoadDevice, true
	case TierInstance:
		return BlockLoadInstance, true
	}
	return BlockInitLoader, true
}

// Classifier assigns load tiers using the context's command table and type
// forest.
type Classifier struct {
	ctx  *Context
	opts Options
}

// NewClassifier returns a classifier over ctx.
func NewClassifier(ctx *Context, opts Options) *Classifier {
	return &Classifier{ctx: ctx, opts: opts}
}

// Classify returns the tier of the named command. A name missing from the
// alias-resolved command table fails with errors.ErrUnknownCommand; a cycle
// in the type forest fails with errors.ErrCycleDetected.
func (c *Classifier) Classify(name string) (Classification, error) {
	cmd, ok := c.ctx.Commands[name]
	if !ok {
		return Classification{}, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownCommand, "%s", name),
			"the registry requires a command it never defines; check the registry source")
	}

	result := Classification{Command: name, InstanceScoped: c.ctx.IsInstanceScoped(name)}

	switch name {
	case c.opts.BootstrapCommand:
		result.Tier = TierRoot
		result.DeclarationOnly = true
		return result, nil
	case c.opts.DeviceProcCommand:
		result.Tier = TierInstance
		return result, nil
	}

	device, err := c.ctx.Types.IsDescendant(cmd.ParamType, c.opts.DeviceHandle)
	if err != nil {
		return Classification{}, errors.Wrapf(err, "failed to classify %s", name)
	}
	if device {
		result.Tier = TierDevice
		return result, nil
	}

	instance, err := c.ctx.Types.IsDescendant(cmd.ParamType, c.opts.InstanceHandle)
	if err != nil {
		return Classification{}, errors.Wrapf(err, "failed to classify %s", name)
	}
	if instance {
		result.Tier = TierInstance
		return result, nil
	}

	result.Tier = TierRoot
	return result, nil
}
