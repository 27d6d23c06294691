package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shubhamnegi/simpledb/execution"
	"github.com/shubhamnegi/simpledb/storage"
	"github.com/shubhamnegi/simpledb/types"
)

var insertCSVCmd = &cobra.Command{
	Use:   "insert-csv <catalog-file> <table-name> <csv-file>",
	Short: "Bulk-insert every row of a CSV file into a table",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Catalog.LoadSchemaFile(args[0], dbRoot); err != nil {
			return err
		}
		tableID, err := db.Catalog.TableID(args[1])
		if err != nil {
			return err
		}
		td, err := db.Catalog.TupleDesc(tableID)
		if err != nil {
			return err
		}

		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			return err
		}

		tuples := make([]*storage.Tuple, 0, len(rows))
		for _, row := range rows {
			t, err := rowToTuple(td, row)
			if err != nil {
				return err
			}
			tuples = append(tuples, t)
		}

		tid := db.NewTxID()
		source := execution.NewTupleSource(td, tuples)
		ins := execution.NewInsert(tid, source, tableID, db.BufferPool)
		if err := ins.Open(); err != nil {
			db.BufferPool.TransactionComplete(tid, false)
			return err
		}
		defer ins.Close()

		result, err := ins.Next()
		if err != nil {
			db.BufferPool.TransactionComplete(tid, false)
			return err
		}
		n, _ := result.Field(0)
		fmt.Printf("inserted %d rows\n", n.(types.IntField).Value)
		return db.BufferPool.TransactionComplete(tid, true)
	},
}

func rowToTuple(td *storage.TupleDesc, row []string) (*storage.Tuple, error) {
	if len(row) != td.NumFields() {
		return nil, fmt.Errorf("%w: row has %d fields, table has %d", types.ErrSchemaMismatch, len(row), td.NumFields())
	}
	t := storage.NewTuple(td)
	for i, raw := range row {
		ft, err := td.FieldType(i)
		if err != nil {
			return nil, err
		}
		var f types.Field
		switch ft {
		case types.IntType:
			v, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i, err)
			}
			f = types.NewIntField(int32(v))
		case types.StringType:
			f = types.NewStringField(raw)
		}
		if err := t.SetField(i, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}
