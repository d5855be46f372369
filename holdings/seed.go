package holdings

// DefaultSeed is the starting book written on first run. Prices are synced
// from the quote snapshot afterwards; the costs here are the actual fills.
var DefaultSeed = []Position{
	{Ticker: "TSLA", Name: "Tesla", Shares: 40, Cost: 244.70, Price: 244.70, Type: Stock},
	{Ticker: "META", Name: "Meta Platforms", Shares: 15, Cost: 512.30, Price: 512.30, Type: Stock},
	{Ticker: "CRWD", Name: "CrowdStrike", Shares: 12, Cost: 301.05, Price: 301.05, Type: Stock},
	{Ticker: "PANW", Name: "Palo Alto Networks", Shares: 20, Cost: 168.40, Price: 168.40, Type: Stock},
	{Ticker: "ORCL", Name: "Oracle", Shares: 25, Cost: 139.85, Price: 139.85, Type: Stock},
	{Ticker: "RKLB", Name: "Rocket Lab", Shares: 300, Cost: 9.62, Price: 9.62, Type: Stock},
	{Ticker: "SOFI", Name: "SoFi Technologies", Shares: 500, Cost: 7.94, Price: 7.94, Type: Stock},
	{Ticker: "IONQ", Name: "IonQ", Shares: 150, Cost: 12.18, Price: 12.18, Type: Stock},
	{Ticker: "NVDA", Name: "NVIDIA 2026-06 C150", Shares: 3, Cost: 21.50, Price: 21.50, Type: Options, Expiry: "2026-06-18", Strike: 150},
	{Ticker: "GOOGL", Name: "Alphabet 2026-03 C170", Shares: 5, Cost: 9.80, Price: 9.80, Type: Options, Expiry: "2026-03-20", Strike: 170},
}
