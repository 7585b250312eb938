package tree

// Default returns the built-in IT troubleshooting tree. The node set is
// static; editing it only requires keeping every option's Next pointing at
// a real node, which New verifies at startup.
func Default() *Tree {
	t, err := New(defaultNodes())
	if err != nil {
		// The built-in definition is validated by tests; reaching this
		// means the binary shipped with a broken tree.
		panic("tree: built-in definition invalid: " + err.Error())
	}
	return t
}

func defaultNodes() []*Node {
	return []*Node{
		{
			ID:   StartNodeID,
			Text: "Thanks! Pick the issue type so I can guide you through quick checks.",
			Options: []Option{
				{ID: "login", Label: "Login / Password", Next: "login"},
				{ID: "network", Label: "Network / Internet", Next: "network"},
				{ID: "software", Label: "Software install / update", Next: "software"},
				{ID: "hardware", Label: "Hardware / device", Next: "hardware"},
				{ID: "other", Label: "Other", Next: "other"},
			},
		},
		{
			ID: "login",
			Text: "Try these steps:\n1) Confirm your username is correct and not auto-filled.\n" +
				"2) Try your last known password carefully (check Caps Lock).\n" +
				"3) Use the password reset link if available.\n" +
				"4) Try a private/incognito browser window.\n" +
				"5) If MFA is required, confirm your device/time are correct.\n\nDid that help?",
			Options: []Option{
				{ID: "login_resolved", Label: "Yes, I can log in now", Next: ResolvedNodeID},
				{ID: "login_still", Label: "No, still locked out", Next: "login_more"},
			},
		},
		{
			ID: "login_more",
			Text: "Next checks:\n1) Try resetting your password and wait 5 minutes for propagation.\n" +
				"2) If you have multiple accounts, use the correct domain.\n" +
				"3) Try a different device or network.\n\nStill stuck?",
			Options: []Option{
				{ID: "login_more_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "login_more_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID: "network",
			Text: "Try these steps:\n1) Check Wi-Fi/Ethernet is connected.\n" +
				"2) Toggle airplane mode or restart your network adapter.\n" +
				"3) Try a different network (hotspot).\n" +
				"4) Restart the device.\n" +
				"5) Check if coworkers are impacted.\n\nDid that help?",
			Options: []Option{
				{ID: "net_resolved", Label: "Yes, network is back", Next: ResolvedNodeID},
				{ID: "net_still", Label: "Still having issues", Next: "network_more"},
			},
		},
		{
			ID: "network_more",
			Text: "Next checks:\n1) Run a speed test and note the results.\n" +
				"2) If using VPN, disconnect/reconnect.\n" +
				"3) Check if only one site/app is affected.\n\nStill stuck?",
			Options: []Option{
				{ID: "net_more_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "net_more_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID: "software",
			Text: "Try these steps:\n1) Reboot the computer.\n" +
				"2) Close the app fully (Task Manager) and reopen.\n" +
				"3) Check for updates.\n" +
				"4) If install failed, check available disk space.\n" +
				"5) Try reinstalling.\n\nDid that help?",
			Options: []Option{
				{ID: "sw_resolved", Label: "Yes, it works now", Next: ResolvedNodeID},
				{ID: "sw_still", Label: "Still broken", Next: "software_more"},
			},
		},
		{
			ID: "software_more",
			Text: "Next checks:\n1) Capture the exact error message or screenshot.\n" +
				"2) Note the app version and OS version.\n" +
				"3) Try running as administrator.\n\nStill stuck?",
			Options: []Option{
				{ID: "sw_more_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "sw_more_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID: "hardware",
			Text: "Try these steps:\n1) Check all cables/power connections.\n" +
				"2) Restart the device.\n" +
				"3) If it's a peripheral, try a different port.\n" +
				"4) Test on another device if possible.\n\nPick the hardware type:",
			Options: []Option{
				{ID: "hw_monitor", Label: "Monitor / Display", Next: "hardware_monitor"},
				{ID: "hw_battery", Label: "Battery / Power", Next: "hardware_battery"},
				{ID: "hw_dock", Label: "Docking station", Next: "hardware_dock"},
				{ID: "hw_other", Label: "Other hardware", Next: "hardware_monitor_more"},
			},
		},
		{
			ID: "hardware_monitor",
			Text: "Monitor checks:\n1) Confirm the monitor is powered on and the input source is correct.\n" +
				"2) Reseat the power cable to the dock.\n" +
				"3) Try a different port on the monitor/dock.\n" +
				"4) Test the monitor on another device if possible.\n" +
				"5) Reseat the video cable (HDMI/DP/USB-C) and try another cable if available.\n\nDid that help?",
			Options: []Option{
				{ID: "hw_mon_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "hw_mon_still", Label: "Still broken", Next: "hardware_monitor_more"},
			},
		},
		{
			ID: "hardware_battery",
			Text: "Battery / power checks:\n1) Try reinserting the power cable from the wall to the docking station.\n" +
				"2) Try a different wall outlet and cable if possible.\n" +
				"3) Check for any charging indicator lights.\n" +
				"4) If using USB-C, try a different port.\n" +
				"5) Reboot and confirm battery level changes.\n\nDid that help?",
			Options: []Option{
				{ID: "hw_bat_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "hw_bat_still", Label: "Still broken", Next: "hardware_more"},
			},
		},
		{
			ID: "hardware_dock",
			Text: "Docking station checks:\n1) Power cycle the dock (unplug power and USB-C, wait 10 seconds, reconnect).\n" +
				"2) Verify the dock power adapter is connected.\n" +
				"3) Try a different USB-C/TB port on the laptop.\n" +
				"4) Test a single peripheral at a time (monitor, keyboard, etc.).\n" +
				"5) If the dock has firmware, confirm it's up to date.\n\nDid that help?",
			Options: []Option{
				{ID: "hw_dock_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "hw_dock_still", Label: "Still broken", Next: "hardware_more"},
			},
		},
		{
			ID: "hardware_more",
			Text: "Next checks:\n1) Note any indicator lights or error codes.\n" +
				"2) Check if the device is detected in OS settings.\n" +
				"3) Provide model/serial if available.\n\nStill stuck?",
			Options: []Option{
				{ID: "hw_more_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "hw_more_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID: "hardware_monitor_more",
			Text: "Next checks:\n1) Note any indicator lights or error codes.\n" +
				"2) Check if the device is detected in OS settings (Settings > System > Display).\n\nStill stuck?",
			Options: []Option{
				{ID: "hw_mon_more_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "hw_mon_more_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID:            "other",
			Text:          "Please briefly describe the issue. I'll suggest a few generic checks.",
			AllowFreeform: true,
			Options: []Option{
				{ID: "other_continue", Label: "Continue", Next: "generic"},
			},
		},
		{
			ID: "generic",
			Text: "Generic checks:\n1) Restart the app and device.\n" +
				"2) Check for updates.\n" +
				"3) Try from another browser or device.\n" +
				"4) Note any exact error message.\n\nDid that help?",
			Options: []Option{
				{ID: "gen_resolved", Label: "Resolved", Next: ResolvedNodeID},
				{ID: "gen_still", Label: "Still broken", Next: EscalateNodeID},
			},
		},
		{
			ID:      ResolvedNodeID,
			Text:    "Great! glad it's working now. If the issue returns, you can come back and escalate.",
			Options: []Option{},
		},
		{
			ID:      EscalateNodeID,
			Text:    "Thanks. Click 'Notify IT team' below and I'll send your details to the team.",
			Options: []Option{},
		},
	}
}
