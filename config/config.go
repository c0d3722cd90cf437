package config

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Instrument declares a tradable asset and its decimal precision.
type Instrument struct {
	Symbol    string
	Precision int32
}

// Exchange declares a venue with its fee rate and conservation tolerance.
type Exchange struct {
	Name                string
	Commission          decimal.Decimal
	ConservationEpsilon decimal.Decimal
}

// Wallet seeds one account with an initial balance.
type Wallet struct {
	Exchange   string
	Instrument string
	Balance    decimal.Decimal
}

// Fill scripts one order fill for the demo simulation.
type Fill struct {
	Exchange string
	Base     string
	Quote    string
	Price    decimal.Decimal
	Side     string
	Quantity decimal.Decimal
}

// Config describes one simulation run.
type Config struct {
	LedgerDir   string
	Instruments []Instrument
	Exchanges   []Exchange
	Wallets     []Wallet
	Fills       []Fill
}

type instrumentTmp struct {
	Symbol    string `yaml:"symbol"`
	Precision int32  `yaml:"precision"`
}

type exchangeTmp struct {
	Name                string `yaml:"name"`
	Commission          string `yaml:"commission"`
	ConservationEpsilon string `yaml:"conservation_epsilon,omitempty"`
}

type walletTmp struct {
	Exchange   string `yaml:"exchange"`
	Instrument string `yaml:"instrument"`
	Balance    string `yaml:"balance"`
}

type fillTmp struct {
	Exchange string `yaml:"exchange"`
	Base     string `yaml:"base"`
	Quote    string `yaml:"quote"`
	Price    string `yaml:"price"`
	Side     string `yaml:"side"`
	Quantity string `yaml:"quantity"`
}

type configTmp struct {
	LedgerDir   string          `yaml:"ledger_dir,omitempty"`
	Instruments []instrumentTmp `yaml:"instruments"`
	Exchanges   []exchangeTmp   `yaml:"exchanges"`
	Wallets     []walletTmp     `yaml:"wallets"`
	Fills       []fillTmp       `yaml:"fills,omitempty"`
}

// Get loads the configuration from the yaml file given by the -config flag,
// falling back to a default demo simulation when the flag is not set.
func Get() (*Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	if *configPath != "" {
		return Load(*configPath)
	}

	return defaultConfig(), nil
}

// Load parses and validates a yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var tmp configTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}

	return tmp.build()
}

func (t configTmp) build() (*Config, error) {
	cfg := &Config{LedgerDir: t.LedgerDir}

	if len(t.Instruments) == 0 {
		return nil, errors.New("at least one instrument is required")
	}
	if len(t.Exchanges) == 0 {
		return nil, errors.New("at least one exchange is required")
	}

	instruments := make(map[string]struct{}, len(t.Instruments))
	for _, i := range t.Instruments {
		if i.Symbol == "" {
			return nil, errors.New("instrument symbol is required")
		}
		if i.Precision < 0 {
			return nil, errors.Errorf("instrument %s: precision must be non-negative", i.Symbol)
		}
		if _, ok := instruments[i.Symbol]; ok {
			return nil, errors.Errorf("duplicate instrument %s", i.Symbol)
		}
		instruments[i.Symbol] = struct{}{}
		cfg.Instruments = append(cfg.Instruments, Instrument{Symbol: i.Symbol, Precision: i.Precision})
	}

	exchanges := make(map[string]struct{}, len(t.Exchanges))
	for _, e := range t.Exchanges {
		if e.Name == "" {
			return nil, errors.New("exchange name is required")
		}
		commission, err := parseDecimal(e.Commission, "commission of exchange "+e.Name)
		if err != nil {
			return nil, err
		}
		epsilon := decimal.Zero
		if e.ConservationEpsilon != "" {
			epsilon, err = parseDecimal(e.ConservationEpsilon, "conservation_epsilon of exchange "+e.Name)
			if err != nil {
				return nil, err
			}
		}
		if _, ok := exchanges[e.Name]; ok {
			return nil, errors.Errorf("duplicate exchange %s", e.Name)
		}
		exchanges[e.Name] = struct{}{}
		cfg.Exchanges = append(cfg.Exchanges, Exchange{
			Name:                e.Name,
			Commission:          commission,
			ConservationEpsilon: epsilon,
		})
	}

	for _, w := range t.Wallets {
		if _, ok := exchanges[w.Exchange]; !ok {
			return nil, errors.Errorf("wallet references unknown exchange %s", w.Exchange)
		}
		if _, ok := instruments[w.Instrument]; !ok {
			return nil, errors.Errorf("wallet references unknown instrument %s", w.Instrument)
		}
		balance, err := parseDecimal(w.Balance, "balance of wallet "+w.Exchange+":"+w.Instrument)
		if err != nil {
			return nil, err
		}
		if balance.IsNegative() {
			return nil, errors.Errorf("wallet %s:%s: balance must be non-negative", w.Exchange, w.Instrument)
		}
		cfg.Wallets = append(cfg.Wallets, Wallet{Exchange: w.Exchange, Instrument: w.Instrument, Balance: balance})
	}

	for _, f := range t.Fills {
		if _, ok := exchanges[f.Exchange]; !ok {
			return nil, errors.Errorf("fill references unknown exchange %s", f.Exchange)
		}
		if _, ok := instruments[f.Base]; !ok {
			return nil, errors.Errorf("fill references unknown instrument %s", f.Base)
		}
		if _, ok := instruments[f.Quote]; !ok {
			return nil, errors.Errorf("fill references unknown instrument %s", f.Quote)
		}
		if f.Side != "buy" && f.Side != "sell" {
			return nil, errors.Errorf("fill side must be buy or sell, got %q", f.Side)
		}
		price, err := parseDecimal(f.Price, "fill price")
		if err != nil {
			return nil, err
		}
		if !price.IsPositive() {
			return nil, errors.New("fill price must be positive")
		}
		quantity, err := parseDecimal(f.Quantity, "fill quantity")
		if err != nil {
			return nil, err
		}
		if !quantity.IsPositive() {
			return nil, errors.New("fill quantity must be positive")
		}
		cfg.Fills = append(cfg.Fills, Fill{
			Exchange: f.Exchange,
			Base:     f.Base,
			Quote:    f.Quote,
			Price:    price,
			Side:     f.Side,
			Quantity: quantity,
		})
	}

	return cfg, nil
}

func parseDecimal(s, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "invalid %s", what)
	}
	return d, nil
}

func defaultConfig() *Config {
	return &Config{
		Instruments: []Instrument{
			{Symbol: "USD", Precision: 2},
			{Symbol: "BTC", Precision: 8},
		},
		Exchanges: []Exchange{
			{
				Name:                "simex",
				Commission:          decimal.NewFromFloat(0.001),
				ConservationEpsilon: decimal.New(1, -5),
			},
		},
		Wallets: []Wallet{
			{Exchange: "simex", Instrument: "USD", Balance: decimal.NewFromInt(10000)},
			{Exchange: "simex", Instrument: "BTC", Balance: decimal.Zero},
		},
		Fills: []Fill{
			{
				Exchange: "simex",
				Base:     "USD",
				Quote:    "BTC",
				Price:    decimal.NewFromInt(20000),
				Side:     "buy",
				Quantity: decimal.NewFromInt(100),
			},
		},
	}
}
