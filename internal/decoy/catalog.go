package decoy

import "strings"

// ID identifies one decoy. Values are stable for the lifetime of a build;
// anything persisted uses Definition.Key instead.
type ID int

const (
	GuestVirtualBox ID = iota + 1
	GuestVMware
	GuestParallels
	GuestHyperV
	GuestVirtualPC

	DebuggerOlly
	DebuggerWinDbg
	DebuggerX64dbg
	DebuggerIDA
	DebuggerImmunity
	DebuggerRadare2
	DebuggerBinaryNinja

	AntivirusAvira
	AntivirusEScan
	AntivirusFortinet
	AntivirusGData
	AntivirusK7
	AntivirusMcAfee

	FirewallZoneAlarm
	FirewallGlassWire
	FirewallComodo
	FirewallTinyWall

	ToolsPEiD
	ToolsResourceHacker
	ToolsDiE
	ToolsDebugView
	ToolsProcessMonitor
	ToolsProcessExplorer
	ToolsTCPView
	ToolsWireshark
	ToolsPETools
	ToolsSpyxx
	ToolsCTKResEdit
	ToolsXNResEditor
)

// Category groups decoys in menus.
type Category string

const (
	CategoryGuest     Category = "VM guest process"
	CategoryDebugger  Category = "Debugger"
	CategoryAntivirus Category = "Antivirus"
	CategoryFirewall  Category = "Firewall"
	CategoryTools     Category = "Tools"
)

// Categories lists categories in menu order.
var Categories = []Category{CategoryGuest, CategoryDebugger, CategoryAntivirus, CategoryFirewall, CategoryTools}

// Definition describes a decoy before any process exists for it.
type Definition struct {
	ID        ID
	Key       string
	Name      string
	Category  Category
	Processes []string
}

var catalog = []Definition{
	{GuestVirtualBox, "virtualbox", "VirtualBox", CategoryGuest, []string{
		"VBoxTray.exe",    // Guest Additions tray application
		"VBoxService.exe", // Guest Additions service
	}},
	{GuestVMware, "vmware", "VMware", CategoryGuest, []string{
		"vmacthlp.exe",
		"vmtoolsd.exe",
		"vmwaretray.exe",
		"vmware-tray.exe",
		"VMwareUser.exe",
	}},
	{GuestParallels, "parallels", "Parallels", CategoryGuest, []string{"prl_cc.exe", "prl_tools.exe", "SharedIntApp.exe"}},
	{GuestHyperV, "hyperv", "Hyper-V", CategoryGuest, []string{"VmComputeAgent.exe"}},
	{GuestVirtualPC, "virtualpc", "Windows Virtual PC", CategoryGuest, []string{"vmusrvc.exe", "vmsrvc.exe"}},

	{DebuggerOlly, "ollydbg", "OllyDBG", CategoryDebugger, []string{"ollydbg.exe"}},
	{DebuggerWinDbg, "windbg", "WinDBG", CategoryDebugger, nil},
	{DebuggerX64dbg, "x64dbg", "x64dbg", CategoryDebugger, nil},
	{DebuggerIDA, "ida", "IDA Pro", CategoryDebugger, nil},
	{DebuggerImmunity, "immunity", "Immunity", CategoryDebugger, nil},
	{DebuggerRadare2, "radare2", "radare2", CategoryDebugger, nil},
	{DebuggerBinaryNinja, "binaryninja", "Binary Ninja", CategoryDebugger, nil},

	{AntivirusAvira, "avira", "Avira", CategoryAntivirus, nil},
	{AntivirusEScan, "escan", "eScan", CategoryAntivirus, []string{
		"avpmapp.exe",  // file monitoring
		"econceal.exe", // eConceal service
		"escanmon.exe", // monitoring tray
		"escanpro.exe", // protection center
	}},
	{AntivirusFortinet, "fortinet", "Fortinet", CategoryAntivirus, nil},
	{AntivirusGData, "gdata", "G DATA", CategoryAntivirus, nil},
	{AntivirusK7, "k7", "K7", CategoryAntivirus, nil},
	{AntivirusMcAfee, "mcafee", "McAfee", CategoryAntivirus, nil},

	{FirewallZoneAlarm, "zonealarm", "ZoneAlarm", CategoryFirewall, nil},
	{FirewallGlassWire, "glasswire", "GlassWire", CategoryFirewall, nil},
	{FirewallComodo, "comodo", "Comodo", CategoryFirewall, nil},
	{FirewallTinyWall, "tinywall", "TinyWall", CategoryFirewall, nil},

	{ToolsPEiD, "peid", "PEiD", CategoryTools, []string{"PEiD.exe"}},
	{ToolsResourceHacker, "reshacker", "Resource Hacker", CategoryTools, nil},
	{ToolsDiE, "die", "Detect It Easy", CategoryTools, nil},
	{ToolsDebugView, "debugview", "DebugView", CategoryTools, nil},
	{ToolsProcessMonitor, "procmon", "Process Monitor", CategoryTools, nil},
	{ToolsProcessExplorer, "procexp", "Process Explorer", CategoryTools, nil},
	{ToolsTCPView, "tcpview", "TCPView", CategoryTools, nil},
	{ToolsWireshark, "wireshark", "Wireshark", CategoryTools, nil},
	{ToolsPETools, "petools", "PE Tools", CategoryTools, nil},
	{ToolsSpyxx, "spyxx", "Spy++", CategoryTools, nil},
	{ToolsCTKResEdit, "ctkresedit", "CTK Res Edit", CategoryTools, nil},
	{ToolsXNResEditor, "xnresedit", "XN Resource Editor", CategoryTools, nil},
}

// DefaultKeys are the decoys started on first launch.
var DefaultKeys = []string{
	"virtualbox",
	"ida",
	"fortinet",
	"zonealarm",
	"peid",
	"procmon",
	"procexp",
	"tcpview",
	"wireshark",
	"petools",
	"spyxx",
}

// Catalog returns a copy of the built-in decoy definitions in ID order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	for i, def := range catalog {
		def.Processes = append([]string(nil), def.Processes...)
		out[i] = def
	}
	return out
}

// LookupKey finds a built-in definition by key (case-insensitive).
func LookupKey(key string) (Definition, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, def := range catalog {
		if def.Key == key {
			def.Processes = append([]string(nil), def.Processes...)
			return def, true
		}
	}
	return Definition{}, false
}
