package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/topokeeper/internal/models"
	"github.com/iudanet/topokeeper/internal/server/storage"
	"github.com/iudanet/topokeeper/pkg/api"
)

// applyEdit применяет присланный объект к записи.
// Ключи properties перезаписывают сохраненные, блок geometry заменяет сохраненный,
// incremental LineString дописывается к сохраненной линии.
func applyEdit(rec *storage.FeatureRecord, wf api.Feature, ts int64) error {
	props := models.Properties{}
	if len(rec.Properties) > 0 {
		if err := json.Unmarshal(rec.Properties, &props); err != nil {
			return fmt.Errorf("stored properties are corrupted: %w", err)
		}
	}
	props = props.Merge(wf.Properties)
	props[models.PropClass] = rec.Class
	props[models.PropUpdated] = ts

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}
	rec.Properties = data

	if wf.Geometry != nil {
		geometry, err := mergeGeometry(rec.Geometry, wf.Geometry)
		if err != nil {
			return err
		}
		rec.Geometry = geometry
	}

	rec.UpdatedAt = ts
	return nil
}

func mergeGeometry(stored []byte, incoming *api.Geometry) ([]byte, error) {
	geom, err := models.GeometryFromWire(incoming)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFeature, err)
	}

	if line, ok := geom.(models.LineString); ok && line.Incremental {
		base := models.LineString{}
		if stored != nil {
			prev, err := decodeGeometry(stored)
			if err != nil {
				return nil, err
			}
			if prevLine, ok := prev.(models.LineString); ok {
				base = prevLine
			}
		}
		if len(base.Coords) == 0 {
			// Нечего продолжать: трек начинается с присланных точек
			line.Incremental = false
			geom = line
		} else {
			geom, _ = base.AppendNewer(line.Coords)
		}
	}

	wg, err := models.GeometryToWire(geom)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFeature, err)
	}
	data, err := json.Marshal(wg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return data, nil
}

func decodeGeometry(data []byte) (models.Geometry, error) {
	var wg api.Geometry
	if err := json.Unmarshal(data, &wg); err != nil {
		return nil, fmt.Errorf("stored geometry is corrupted: %w", err)
	}
	return models.GeometryFromWire(&wg)
}

// recordToWire конвертирует запись в объект API
func recordToWire(rec *storage.FeatureRecord) (api.Feature, error) {
	wf := api.Feature{ID: rec.ID, Type: api.FeatureType}
	if err := json.Unmarshal(rec.Properties, &wf.Properties); err != nil {
		return api.Feature{}, fmt.Errorf("feature %s: stored properties are corrupted: %w", rec.ID, err)
	}
	if rec.Geometry != nil {
		wf.Geometry = &api.Geometry{}
		if err := json.Unmarshal(rec.Geometry, wf.Geometry); err != nil {
			return api.Feature{}, fmt.Errorf("feature %s: stored geometry is corrupted: %w", rec.ID, err)
		}
	}
	return wf, nil
}
