package common

import (
    "os"
    "log"
    "encoding/json"
    "path/filepath"
)

const CurrentVersion = 1

/* a key on the host keyboard and the byte the program sees in $FF while it is pressed */
type ConfigKey struct {
    Key string `json:"key"`
    Value byte `json:"value"`
}

type ConfigData struct {
    Version int `json:"version,omitempty"`
    /* window size as a multiple of the tile sheet */
    Scale int `json:"scale,omitempty"`
    /* "accurate" or "base" */
    BranchTiming string `json:"branch-timing,omitempty"`
    Keys []ConfigKey `json:"keys,omitempty"`
}

/* make the directory where the config file lives, which is ~/.config/nescore on linux */
func GetOrCreateConfigDir() (string, error) {
    configDir, err := os.UserConfigDir()
    if err != nil {
        return "", err
    }
    configPath := filepath.Join(configDir, "nescore")
    err = os.MkdirAll(configPath, 0755)
    if err != nil {
        return "", err
    }

    return configPath, nil
}

/* wasd and the arrow keys, as the ascii codes the easy6502 style programs poll for */
func DefaultConfigData() ConfigData {
    return ConfigData{
        Version: CurrentVersion,
        Scale: 3,
        BranchTiming: "accurate",
        Keys: []ConfigKey{
            ConfigKey{Key: "W", Value: 'w'},
            ConfigKey{Key: "A", Value: 'a'},
            ConfigKey{Key: "S", Value: 's'},
            ConfigKey{Key: "D", Value: 'd'},
            ConfigKey{Key: "ArrowUp", Value: 'w'},
            ConfigKey{Key: "ArrowLeft", Value: 'a'},
            ConfigKey{Key: "ArrowDown", Value: 's'},
            ConfigKey{Key: "ArrowRight", Value: 'd'},
        },
    }
}

func LoadConfigData() (ConfigData, error) {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return DefaultConfigData(), err
    }
    config := filepath.Join(configPath, "config.json")
    file, err := os.Open(config)
    if err != nil {
        return DefaultConfigData(), err
    }
    defer file.Close()

    var data ConfigData
    decoder := json.NewDecoder(file)
    err = decoder.Decode(&data)
    if err != nil {
        log.Printf("Could not load config data: %v", err)
        return DefaultConfigData(), err
    }

    if data.Version != CurrentVersion {
        return DefaultConfigData(), nil
    }

    if data.Scale <= 0 {
        data.Scale = DefaultConfigData().Scale
    }

    return data, nil
}

/* write config.json into the config dir */
func SaveConfigData(data ConfigData) error {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return err
    }
    config := filepath.Join(configPath, "config.json")

    file, err := os.Create(config)
    if err != nil {
        return err
    }
    defer file.Close()

    encoder := json.NewEncoder(file)
    encoder.SetIndent("", "  ")
    return encoder.Encode(data)
}
