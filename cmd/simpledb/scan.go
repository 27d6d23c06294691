package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shubhamnegi/simpledb/execution"
)

var scanCmd = &cobra.Command{
	Use:   "scan <catalog-file> <table-name>",
	Short: "Sequentially scan a table and print every tuple",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Catalog.LoadSchemaFile(args[0], dbRoot); err != nil {
			return err
		}
		tableID, err := db.Catalog.TableID(args[1])
		if err != nil {
			return err
		}

		tid := db.NewTxID()
		scan, err := execution.NewSeqScan(tid, tableID, "", db.BufferPool, db.Catalog)
		if err != nil {
			return err
		}
		if err := scan.Open(); err != nil {
			return err
		}
		defer scan.Close()

		count := 0
		for {
			ok, err := scan.HasNext()
			if err != nil {
				db.BufferPool.TransactionComplete(tid, false)
				return err
			}
			if !ok {
				break
			}
			t, err := scan.Next()
			if err != nil {
				db.BufferPool.TransactionComplete(tid, false)
				return err
			}
			fmt.Println(t.String())
			count++
		}
		fmt.Printf("%d tuples\n", count)
		return db.BufferPool.TransactionComplete(tid, true)
	},
}
