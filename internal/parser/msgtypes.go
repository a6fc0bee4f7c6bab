package parser

import "strconv"

// messageTypeNames maps message type codes to engine names.
var messageTypeNames = map[int32]string{
	27:   "MSG_END_OF_STREAM",
	1000: "MSG_BEGIN_NETWORK_MESSAGES",
	1001: "MSG_CREATE_SELECTED_GROUP",
	1002: "MSG_CREATE_SELECTED_GROUP_NO_SOUND",
	1003: "MSG_DESTROY_SELECTED_GROUP",
	1004: "MSG_REMOVE_FROM_SELECTED_GROUP",
	1005: "MSG_SELECTED_GROUP_COMMAND",
	1006: "MSG_CREATE_TEAM0",
	1007: "MSG_CREATE_TEAM1",
	1008: "MSG_CREATE_TEAM2",
	1009: "MSG_CREATE_TEAM3",
	1010: "MSG_CREATE_TEAM4",
	1011: "MSG_CREATE_TEAM5",
	1012: "MSG_CREATE_TEAM6",
	1013: "MSG_CREATE_TEAM7",
	1014: "MSG_CREATE_TEAM8",
	1015: "MSG_CREATE_TEAM9",
	1016: "MSG_SELECT_TEAM0",
	1017: "MSG_SELECT_TEAM1",
	1018: "MSG_SELECT_TEAM2",
	1019: "MSG_SELECT_TEAM3",
	1020: "MSG_SELECT_TEAM4",
	1021: "MSG_SELECT_TEAM5",
	1022: "MSG_SELECT_TEAM6",
	1023: "MSG_SELECT_TEAM7",
	1024: "MSG_SELECT_TEAM8",
	1025: "MSG_SELECT_TEAM9",
	1026: "MSG_ADD_TEAM0",
	1027: "MSG_ADD_TEAM1",
	1028: "MSG_ADD_TEAM2",
	1029: "MSG_ADD_TEAM3",
	1030: "MSG_ADD_TEAM4",
	1031: "MSG_ADD_TEAM5",
	1032: "MSG_ADD_TEAM6",
	1033: "MSG_ADD_TEAM7",
	1034: "MSG_ADD_TEAM8",
	1035: "MSG_ADD_TEAM9",
	1036: "MSG_DO_ATTACKSQUAD",
	1037: "MSG_DO_WEAPON",
	1038: "MSG_DO_WEAPON_AT_LOCATION",
	1039: "MSG_DO_WEAPON_AT_OBJECT",
	1040: "MSG_DO_SPECIAL_POWER",
	1041: "MSG_DO_SPECIAL_POWER_AT_LOCATION",
	1042: "MSG_DO_SPECIAL_POWER_AT_OBJECT",
	1043: "MSG_SET_RALLY_POINT",
	1044: "MSG_PURCHASE_SCIENCE",
	1045: "MSG_QUEUE_UPGRADE",
	1046: "MSG_CANCEL_UPGRADE",
	1047: "MSG_QUEUE_UNIT_CREATE",
	1048: "MSG_CANCEL_UNIT_CREATE",
	1049: "MSG_DOZER_CONSTRUCT",
	1050: "MSG_DOZER_CONSTRUCT_LINE",
	1051: "MSG_DOZER_CANCEL_CONSTRUCT",
	1052: "MSG_SELL",
	1053: "MSG_EXIT",
	1054: "MSG_EVACUATE",
	1055: "MSG_EXECUTE_RAILED_TRANSPORT",
	1056: "MSG_COMBATDROP_AT_LOCATION",
	1057: "MSG_COMBATDROP_AT_OBJECT",
	1058: "MSG_AREA_SELECTION",
	1059: "MSG_DO_ATTACK_OBJECT",
	1060: "MSG_DO_FORCE_ATTACK_OBJECT",
	1061: "MSG_DO_FORCE_ATTACK_GROUND",
	1062: "MSG_GET_REPAIRED",
	1063: "MSG_GET_HEALED",
	1064: "MSG_DO_REPAIR",
	1065: "MSG_RESUME_CONSTRUCTION",
	1066: "MSG_ENTER",
	1067: "MSG_DOCK",
	1068: "MSG_DO_MOVETO",
	1069: "MSG_DO_ATTACKMOVETO",
	1070: "MSG_DO_FORCEMOVETO",
	1071: "MSG_ADD_WAYPOINT",
	1072: "MSG_DO_GUARD_POSITION",
	1073: "MSG_DO_GUARD_OBJECT",
	1074: "MSG_DO_STOP",
	1075: "MSG_DO_SCATTER",
	1076: "MSG_INTERNET_HACK",
	1077: "MSG_DO_CHEER",
	1078: "MSG_TOGGLE_OVERCHARGE",
	1079: "MSG_SWITCH_WEAPONS",
	1080: "MSG_CONVERT_TO_CARBOMB",
	1081: "MSG_CAPTUREBUILDING",
	1082: "MSG_DISABLEVEHICLE_HACK",
	1083: "MSG_STEALCASH_HACK",
	1084: "MSG_DISABLEBUILDING_HACK",
	1085: "MSG_SNIPE_VEHICLE",
	1086: "MSG_DO_SPECIAL_POWER_OVERRIDE_DESTINATION",
	1087: "MSG_DO_SALVAGE",
	1088: "MSG_CLEAR_INGAME_POPUP_MESSAGE",
	1089: "MSG_PLACE_BEACON",
	1090: "MSG_REMOVE_BEACON",
	1091: "MSG_SET_BEACON_TEXT",
	1092: "MSG_SET_REPLAY_CAMERA",
	1093: "MSG_SELF_DESTRUCT",
	1094: "MSG_CREATE_FORMATION",
	1095: "MSG_LOGIC_CRC",
	1096: "MSG_SET_MINE_CLEARING_DETAIL",
	1097: "MSG_ENABLE_RETALIATION_MODE",
}

// MessageTypeName returns the engine name of a message type, or the
// decimal code when the type is not in the table.
func MessageTypeName(t int32) string {
	if n, ok := messageTypeNames[t]; ok {
		return n
	}
	return strconv.Itoa(int(t))
}
