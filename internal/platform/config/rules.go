package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"hrinsight/internal/domain/attrition"
)

const rulesEnvPrefix = "RULES_"

// LoadRules layers the attrition rule set, lowest precedence first:
//  1. built-in defaults
//  2. the YAML file at path, when path is set
//  3. RULES_ environment variables, with "__" separating levels
//     (RULES_PAY__GAP_PERCENT=12 sets pay.gap_percent)
func LoadRules(path string) (attrition.Rules, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return attrition.Rules{}, fmt.Errorf("load rules file: %w", err)
		}
	}

	envProvider := env.Provider(rulesEnvPrefix, ".", rulesEnvKey)
	if err := k.Load(envProvider, nil); err != nil {
		return attrition.Rules{}, err
	}

	rules := attrition.DefaultRules()
	if err := k.UnmarshalWithConf("", &rules, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return attrition.Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return attrition.Rules{}, err
	}
	return rules, nil
}

func rulesEnvKey(s string) string {
	s = strings.TrimPrefix(s, rulesEnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// WatchRules reloads the rules file into holder on every change until ctx is
// cancelled. A file that fails to load or validate leaves the previous rules
// active. The parent directory is watched so that editors which save by
// renaming a temp file over the target keep triggering reloads.
func WatchRules(ctx context.Context, path string, holder *attrition.RulesHolder) error {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	slog.Info("rules: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			rules, err := LoadRules(path)
			if err != nil {
				slog.Error("rules: reload failed, keeping previous rules", "path", path, "err", err)
				continue
			}
			holder.Store(rules)
			slog.Info("rules: reloaded", "path", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("rules: watcher error", "err", err)
		}
	}
}
