package stats

// proMaps are the curated 1v1 maps counted in the pro-map category.
var proMaps = []string{
	"1v1 try it_v2a",
	"1v1 try it_v2b",
	"[RANK] [NMC] Battle on the River",
	"[RANK] [NMC] Blasted Lands",
	"[RANK] [NMC] Summer Arena",
	"[RANK] [NMC] Tournament Arena",
	"[RANK] [NMC] Tournament City",
	"[RANK] A New Tragedy ZH v1",
	"[RANK] A New Tragedy ZH v2",
	"[RANK] Abandoned Desert ZH v1",
	"[RANK] Abandoned Farms ZH v1",
	"[RANK] AKAs Magic ZH v1",
	"[RANK] Alfies Haven ZH v1",
	"[RANK] Ammars Sandcastles v3",
	"[RANK] Annihilation",
	"[RANK] Antarctic Lagoon ZH v3",
	"[RANK] Arctic Arena ZH v1",
	"[RANK] Arctic Lagoon ZH v2",
	"[RANK] Area J1",
	"[RANK] Arena of War ZH v1",
	"[RANK] Arizona Airfield ZH v1",
	"[RANK] Artic Lagoon",
	"[RANK] Australia ZH v1",
	"[RANK] Barren Badlands Balanced ZH v1",
	"[RANK] Barren Badlands Balanced ZH v2",
	"[RANK] Battle Plan ZH v1",
	"[RANK] Battleship Bay ZH v1",
	"[RANK] Bitter Winter Balanced NoCars ZH v1",
	"[RANK] Black Hell ZH v1",
	"[RANK] Blizzard Badlands Reloaded",
	"[RANK] Blizzard Badlands ZHv5",
	"[RANK] Blossoming Valley ZH v1",
	"[RANK] Blue Hole ZH v1",
	"[RANK] Bounty v3",
	"[RANK] Bozic Destruction ZH v3",
	"[RANK] Bozic Destruction ZH v4",
	"[RANK] Canyon of the Dead v1",
	"[RANK] Canyon of the Dead ZH v2",
	"[RANK] Coastal Conflict ZH v2",
	"[RANK] Cold Territory ZH v2",
	"[RANK] Combat Island ZH v1",
	"[RANK] Dammed Cottages ZH v1",
	"[RANK] Dammed Korhal ZH v1",
	"[RANK] Dammed Scorpion ZH v1",
	"[RANK] Danger Close ZH",
	"[RANK] DeDuSu ZH v1",
	"[RANK] Desert Fury ZH v1",
	"[RANK] Desert Quadrant ZH v1",
	"[RANK] Deserted Village v3",
	"[RANK] Desolated District ZH v1",
	"[RANK] Devastated Oasis ZH v2",
	"[RANK] Double Damination ZH v1",
	"[RANK] Down the Road ZH v1",
	"[RANK] Drallim Desert ZH v2",
	"[RANK] Dry River ZH v1",
	"[RANK] Dust Devil ZH v1",
	"[RANK] Eagle Eye",
	"[RANK] Early Spring ZH v1",
	"[RANK] Early Spring ZH v2",
	"[RANK] Echo ZH v1",
	"[RANK] Egyptian Oasis ZH v1",
	"[RANK] Eight ZH v2",
	"[RANK] Embattled Land ZH v2",
	"[RANK] Endboss ZH v1",
	"[RANK] Evergreen Lagoon",
	"[RANK] Farmlands of the Fallen ZH v1",
	"[RANK] Final Crossroad ZH v1",
	"[RANK] Final Crusade Balanced ZH v1",
	"[RANK] Final Crusade FIXEDv2",
	"[RANK] Flash Fire Balanced ZH v1",
	"[RANK] Forbidden Takover ZH v2",
	"[RANK] Forbidden Takover ZH v3",
	"[RANK] Forest of Oblivion ZH v1",
	"[RANK] Forgotten Air Battle v2",
	"[RANK] Forgotten Air Battle v4",
	"[RANK] Forgotten Air Battle ZH v5",
	"[RANK] Forgotten Ruins",
	"[RANK] Fort Payne ZH v1",
	"[RANK] Frog Prince ZH v2",
	"[RANK] Frozen Ruins",
	"[RANK] Gold Cobra",
	"[RANK] Hanamura Temple ZH v1",
	"[RANK] Hard Winter ZH v2",
	"[RANK] Hidden Treasures v2",
	"[RANK] Highway 99 ZH v1",
	"[RANK] Homeland Rocks ZH v3",
	"[RANK] Homeland Rocks ZH v4",
	"[RANK] Irish Front ZH v1",
	"[RANK] Jungle Wolf ZH v1",
	"[RANK] Jungle Wolf ZH v2",
	"[RANK] Lagoon ZH v2",
	"[RANK] Lagoon ZH v4",
	"[RANK] Liquid Gold ZH v1",
	"[RANK] Liquid Gold ZH v2",
	"[RANK] Lost Valley v2",
	"[RANK] Make Make 2 ZH v3",
	"[RANK] Melting Snow ZH v2",
	"[RANK] Melting Snow ZH v3",
	"[RANK] Mountain Mayhem v2",
	"[RANK] Mountain Oil ZH v1",
	"[RANK] Natural Threats ZH v2",
	"[RANK] Natural Threats ZH v3",
	"[RANK] Natural Threats ZH v4",
	"[RANK] Onza Map v1",
	"[RANK] Proxy War ZH v1",
	"[RANK] Rainforest Reservoir ZH v1",
	"[RANK] Rebellion ZH v1",
	"[RANK] Sacred Land ZH v1",
	"[RANK] Sakura Forest II ZH v1",
	"[RANK] Salt Lake River ZH v1",
	"[RANK] Sand Scorpion",
	"[RANK] Sand Serpent Balanced ZH v1",
	"[RANK] Sand Serpent FIXED",
	"[RANK] Scaraa ZH v1",
	"[RANK] Scorched Earth ZH v3",
	"[RANK] Silicon Valley ZH v1",
	"[RANK] Sleeping Dragon v3",
	"[RANK] Snow Aggression v3",
	"[RANK] Snow Blind ZH v1",
	"[RANK] Snow Blind ZH v2",
	"[RANK] Snowy Drought v4",
	"[RANK] Snowy Drought ZH v5",
	"[RANK] Snowy Roads ZH v1",
	"[RANK] Storm Surge ZH v1",
	"[RANK] Storm Valley",
	"[RANK] TD Classic NoCars ZH v1",
	"[RANK] TD NoBugsCars ZH v1",
	"[RANK] Tiny Tactics ZH v1",
	"[RANK] Total Domination No SDZ ZH v1",
	"[RANK] Tournament Delta ZH v2",
	"[RANK] Tournament Delta ZH v3",
	"[RANK] Uneven Heights v3",
	"[RANK] Vendetta ZH v1",
	"[RANK] Wasteland Warlords Revised",
	"[RANK] Winding River Revised ZH v1",
	"[RANK] Winter Arena",
	"[RANK] Winter Wolf Balanced ZH v1",
	"[RANK] Yelling Avalanche ZH v1",
	"[RANK] ZH Carrier is Over v2",
	"Additional Forces ZH v1",
	"Alpine Assault",
	"Alpine Assault v2",
	"Barren Badlands",
	"Battle Park",
	"Bitter Winter",
	"Bitter Winter Balanced ZH vB",
	"Bombardment Beach",
	"ButterbroT ZH v3",
	"Canyon Frost ZH v1",
	"Crazy Beach ZH v1",
	"Cross-Country",
	"Desert Fury",
	"Down the Road v3",
	"Drallim Desert v1",
	"Dust Devil",
	"Entropys Empire ZH v2",
	"Final Crusade",
	"Flash Fire",
	"Forest of Camelot ZH v1",
	"Forgotten Forest",
	"Freezing Rain v1",
	"Frozen Dawn ZH v1 (draf02)",
	"GenTools secret Lab A",
	"Heartland Shield",
	"Jammed Lands {v3}",
	"Killing Fields",
	"Killing Fields Balanced v2",
	"Kinky Fields ZH v1",
	"Leipzig Lowlands",
	"Leipzig Lowlands Balanced ZH vB",
	"Lone Outpost",
	"Make-Make ZHv2",
	"Modern Warfare ZH v0",
	"Mountain Arena ZH v1",
	"North America",
	"Poseidons Lair ZH v2",
	"Rising Legion ZH v1",
	"Salt Lake River ZH v1",
	"Sand Serpent",
	"Seaside Mutiny",
	"Siege(Tower)",
	"Silent River",
	"Sleeping Dragon V2",
	"Snow Land Nation ZH v3",
	"Snowy Plateau v2",
	"Stonehenge ZH TEST v4",
	"TD Classic ZH v1",
	"TD NoBugs ZH v1",
	"TD OpenMiddle NoCars ZH v1",
	"TD OpenMiddle ZH v1",
	"The Frontline",
	"Tournament Desert",
	"Tournament in Canyon V2",
	"Tournament in Canyon V32",
	"Tournament Plains",
	"Urban Pinch ZH v1",
	"Wasteland Warlords",
	"Winding River",
	"Wings of Fury",
	"Winter Wolf",
	"Wrong Neighborhood v1",
	"Yota Nation Arena ZH v1",
	"Yota Nation Battleground ZH v1",
}
