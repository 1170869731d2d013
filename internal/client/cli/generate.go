package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// Generate prints a random password. Arguments: an optional length and an
// optional set selector made of the letters u, l, d and s (upper, lower,
// digits, symbols), e.g. "generate 24 lud".
func (a *App) Generate(_ context.Context, args []string) error {
	opts, err := parseGenerateArgs(args)
	if err != nil {
		return err
	}
	pw, err := services.GeneratePassword(opts)
	if err != nil {
		return err
	}
	a.println(pw)
	return nil
}

func parseGenerateArgs(args []string) (services.PasswordOptions, error) {
	opts := services.DefaultPasswordOptions()
	if len(args) > 2 {
		return opts, fmt.Errorf("%w: usage: generate [length] [ulds]", common.ErrorValidation)
	}
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			opts.Length = n
			continue
		}
		if strings.Trim(arg, "ulds") != "" {
			return opts, fmt.Errorf("%w: unknown character set %q", common.ErrorValidation, arg)
		}
		opts.Upper = strings.ContainsRune(arg, 'u')
		opts.Lower = strings.ContainsRune(arg, 'l')
		opts.Digits = strings.ContainsRune(arg, 'd')
		opts.Symbols = strings.ContainsRune(arg, 's')
	}
	return opts, nil
}
